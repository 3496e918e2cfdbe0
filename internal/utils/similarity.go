package utils

import (
	"regexp"
	"strings"
)

const (
	// minTokenLen filters out stopword-sized tokens ("a", "of", "is").
	minTokenLen = 3
	// phraseBoost is added once per distinct query bigram found verbatim
	// in the chunk text.
	phraseBoost = 0.3
)

var (
	nonWordRE = regexp.MustCompile(`\W+`)
	wordRE    = regexp.MustCompile(`\w+`)
)

// tokenSet lowercases the text, splits it on runs of non-word characters
// and returns the distinct tokens of length >= minTokenLen.
func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range nonWordRE.Split(strings.ToLower(text), -1) {
		if len(tok) >= minTokenLen {
			set[tok] = struct{}{}
		}
	}
	return set
}

// bigrams returns the distinct adjacent word pairs of the lowercased text,
// each joined by a single space.
func bigrams(text string) []string {
	words := wordRE.FindAllString(text, -1)
	seen := make(map[string]struct{})
	var pairs []string
	for i := 0; i+1 < len(words); i++ {
		pair := words[i] + " " + words[i+1]
		if _, dup := seen[pair]; dup {
			continue
		}
		seen[pair] = struct{}{}
		pairs = append(pairs, pair)
	}
	return pairs
}

// Similarity scores how relevant a chunk of text is to a query, in [0, 1].
// It combines Jaccard similarity over distinct tokens with a fixed boost
// for every query bigram that appears verbatim in the chunk. It is a total
// function: degenerate inputs (empty strings, no tokens) score 0.
func Similarity(query, chunk string) float64 {
	queryTokens := tokenSet(query)
	chunkTokens := tokenSet(chunk)

	intersection := 0
	for tok := range queryTokens {
		if _, ok := chunkTokens[tok]; ok {
			intersection++
		}
	}
	union := len(queryTokens) + len(chunkTokens) - intersection

	var score float64
	if union > 0 {
		score = float64(intersection) / float64(union)
	}

	loweredChunk := strings.ToLower(chunk)
	for _, pair := range bigrams(strings.ToLower(query)) {
		if strings.Contains(loweredChunk, pair) {
			score += phraseBoost
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}
