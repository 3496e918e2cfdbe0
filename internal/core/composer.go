package core

import (
	"fmt"
	"strings"
)

// ResponseComposer turns a query and its ranked sources into the answer
// text shown to the user. Implementations may call an external model, so
// this is the only operation expected to block for a meaningful time.
type ResponseComposer interface {
	Compose(query string, sources []Source) (string, error)
}

const noSourcesAnswer = "I couldn't find anything in the uploaded documents that relates to your question. " +
	"Try uploading a document that covers this topic, or rephrase your question."

// TemplateComposer builds answers from the retrieved sources with fixed
// phrasing. It is deterministic and needs no network access, which makes
// it the default composer and the one used in tests.
type TemplateComposer struct{}

func NewTemplateComposer() *TemplateComposer {
	return &TemplateComposer{}
}

func (c *TemplateComposer) Compose(query string, sources []Source) (string, error) {
	if len(sources) == 0 {
		return noSourcesAnswer, nil
	}

	var b strings.Builder
	top := sources[0]
	fmt.Fprintf(&b, "Based on \"%s\": %s", top.Title, top.Content)

	// Mention the other documents that contributed context, without
	// repeating the top source's title.
	var others []string
	seen := map[string]bool{top.Title: true}
	for _, src := range sources[1:] {
		if seen[src.Title] {
			continue
		}
		seen[src.Title] = true
		others = append(others, src.Title)
	}
	if len(others) > 0 {
		fmt.Fprintf(&b, " (see also: %s)", strings.Join(others, ", "))
	}
	return b.String(), nil
}
