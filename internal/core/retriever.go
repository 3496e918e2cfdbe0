package core

import (
	"sort"

	"github.com/kiraleos/docchat/internal/store"
	"github.com/kiraleos/docchat/internal/utils"
)

const (
	DefaultTopK      = 3   // Number of sources to retrieve for context
	DefaultThreshold = 0.1 // Minimum similarity score to consider a chunk relevant
)

// Source is a retrieval result: one chunk with its owning document's title
// and the relevance score it got for the query. Sources are ephemeral,
// produced per query and never persisted.
type Source struct {
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Relevance float64 `json:"relevance"`
}

// Retriever scores a query against every chunk of every stored document
// and returns the best-matching sources. It only reads the document store.
type Retriever struct {
	docs      *store.DocumentStore
	topK      int
	threshold float64
}

func NewRetriever(docs *store.DocumentStore, topK int, threshold float64) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if threshold < 0 {
		threshold = DefaultThreshold
	}
	return &Retriever{docs: docs, topK: topK, threshold: threshold}
}

// Retrieve runs RetrieveWith using the retriever's configured defaults.
func (r *Retriever) Retrieve(query string) []Source {
	return r.RetrieveWith(query, r.topK, r.threshold)
}

// RetrieveWith scores every chunk in the store against the query, keeps
// chunks scoring strictly above threshold, sorts them by relevance
// descending and returns at most topK sources. Ties keep document
// insertion order then chunk order, so results are reproducible across
// runs with identical input. An empty result is normal, not an error.
// A topK <= 0 or a negative threshold falls back to the configured value.
func (r *Retriever) RetrieveWith(query string, topK int, threshold float64) []Source {
	if topK <= 0 {
		topK = r.topK
	}
	if threshold < 0 {
		threshold = r.threshold
	}

	sources := make([]Source, 0)
	for _, doc := range r.docs.Snapshot() {
		for _, chunk := range doc.Chunks {
			score := utils.Similarity(query, chunk)
			if score <= threshold {
				continue
			}
			sources = append(sources, Source{
				Title:     doc.Title,
				Content:   chunk,
				Relevance: score,
			})
		}
	}

	// Stable sort: candidates were gathered in insertion order, which is
	// the tie-break rule for equal scores.
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Relevance > sources[j].Relevance
	})

	if len(sources) > topK {
		sources = sources[:topK]
	}
	return sources
}
