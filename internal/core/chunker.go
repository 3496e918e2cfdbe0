package core

import "strings"

const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

// Chunk splits text into sentence-aligned chunks of roughly chunkSize
// characters. Consecutive chunks share a word-based overlap derived from
// the overlap parameter (overlap/10 trailing words of the previous chunk).
// Sentences are never split: a single sentence longer than chunkSize is
// emitted as its own oversized chunk. The result is never empty; when no
// chunks can be produced the whole text is returned as a single chunk.
func Chunk(text string, chunkSize, overlap int) []string {
	sentences := splitSentences(text)

	var chunks []string
	var buffer string
	for _, sentence := range sentences {
		if buffer != "" && len(buffer)+len(sentence) > chunkSize {
			chunks = append(chunks, buffer)
			buffer = trailingWords(buffer, overlap/10)
			if buffer != "" {
				buffer += " " + sentence
			} else {
				buffer = sentence
			}
			continue
		}
		if buffer != "" {
			buffer += ". " + sentence
		} else {
			buffer = sentence
		}
	}
	if buffer != "" {
		chunks = append(chunks, buffer)
	}

	if len(chunks) == 0 {
		return []string{text}
	}
	return chunks
}

// splitSentences breaks text at '.', '!' and '?' boundaries, trims each
// candidate and drops the empty ones.
func splitSentences(text string) []string {
	candidates := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	sentences := candidates[:0]
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c != "" {
			sentences = append(sentences, c)
		}
	}
	return sentences
}

// trailingWords returns the last n space-separated words of s, or "" when
// n <= 0.
func trailingWords(s string, n int) string {
	if n <= 0 {
		return ""
	}
	words := strings.Fields(s)
	if n > len(words) {
		n = len(words)
	}
	return strings.Join(words[len(words)-n:], " ")
}
