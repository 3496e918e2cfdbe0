package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarity_ScoreWithinRange(t *testing.T) {
	cases := []struct{ query, chunk string }{
		{"", ""},
		{"hello", ""},
		{"", "some chunk text"},
		{"exact same words here", "exact same words here"},
		{"the cat sat", "an unrelated chunk about databases"},
		{"machine learning machine learning machine learning", "machine learning is a field of machine learning"},
	}
	for _, c := range cases {
		score := Similarity(c.query, c.chunk)
		assert.GreaterOrEqual(t, score, 0.0, "query=%q chunk=%q", c.query, c.chunk)
		assert.LessOrEqual(t, score, 1.0, "query=%q chunk=%q", c.query, c.chunk)
	}
}

func TestSimilarity_EmptyInputsScoreZero(t *testing.T) {
	assert.Zero(t, Similarity("", ""))
	assert.Zero(t, Similarity("query words", ""))
	assert.Zero(t, Similarity("", "chunk words"))
}

func TestSimilarity_ShortTokensIgnored(t *testing.T) {
	// Every token is length <= 2, so both token sets are empty and the
	// union-empty case must yield 0, not a division by zero.
	assert.Zero(t, Similarity("a an to of", "is at on by"))
}

func TestSimilarity_IdenticalTextScoresOne(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	assert.InDelta(t, 1.0, Similarity(text, text), 1e-9)
}

func TestSimilarity_DisjointTextScoresZero(t *testing.T) {
	assert.Zero(t, Similarity("alpha beta gamma", "delta epsilon zeta"))
}

func TestSimilarity_SelfScoreDominatesDisjoint(t *testing.T) {
	query := "where did the cat sit"
	self := Similarity(query, query)
	disjoint := Similarity(query, "unrelated words about quantum physics")
	assert.GreaterOrEqual(t, self, disjoint)
}

func TestSimilarity_JaccardValue(t *testing.T) {
	// query tokens: {where, did, the, cat, sit}; chunk tokens:
	// {the, cat, sat, mat} ("on" is too short). Intersection {the, cat},
	// union of 7, plus one bigram match ("the cat") worth 0.3.
	score := Similarity("Where did the cat sit?", "The cat sat on the mat")
	require.InDelta(t, 2.0/7.0+0.3, score, 1e-9)
}

func TestSimilarity_PhraseBoostForVerbatimBigram(t *testing.T) {
	withPhrase := Similarity("machine learning", "an introduction to machine learning systems")
	withoutPhrase := Similarity("machine learning", "an introduction to learning about machine tools")
	assert.Greater(t, withPhrase, withoutPhrase)
}

func TestSimilarity_PhraseBoostCumulative(t *testing.T) {
	// Two distinct matching bigrams, no token overlap above jaccard 1.0:
	// the clamp keeps the final score at 1.0.
	score := Similarity("deep neural networks", "deep neural networks everywhere")
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestSimilarity_CaseInsensitive(t *testing.T) {
	assert.InDelta(t,
		Similarity("Database Index", "database index tuning"),
		Similarity("database index", "DATABASE INDEX TUNING"),
		1e-9,
	)
}

func TestSimilarity_Deterministic(t *testing.T) {
	query := "how does garbage collection work"
	chunk := "The garbage collector runs concurrently with the program."
	first := Similarity(query, chunk)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Similarity(query, chunk))
	}
}
