package store

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ChunkFunc turns raw document text into retrieval chunks. The store is
// deliberately decoupled from the chunking algorithm; the caller injects it.
type ChunkFunc func(text string) []string

// DocumentStore holds uploaded documents in memory, in insertion order.
// A single RWMutex serializes mutations against in-flight retrievals.
type DocumentStore struct {
	mu    sync.RWMutex
	chunk ChunkFunc
	docs  []*Document
	index map[string]int // id -> position in docs
}

func NewDocumentStore(chunk ChunkFunc) *DocumentStore {
	return &DocumentStore{
		chunk: chunk,
		index: make(map[string]int),
	}
}

// AddDocument chunks the content and appends a new Document to the store.
// A document always has at least one chunk: if chunking yields nothing, the
// whole raw content becomes a single fallback chunk.
func (s *DocumentStore) AddDocument(title, content string) *Document {
	chunks := s.chunk(content)
	if len(chunks) == 0 {
		chunks = []string{content}
	}

	doc := &Document{
		ID:         uuid.NewString(),
		Title:      title,
		RawContent: content,
		Chunks:     chunks,
		UploadedAt: time.Now(),
		SizeBytes:  int64(len(content)),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.index[doc.ID] = len(s.docs)
	s.docs = append(s.docs, doc)
	return doc
}

// DeleteDocument removes the document with the given id. Deleting an
// unknown id is a no-op, which keeps the operation idempotent.
func (s *DocumentStore) DeleteDocument(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return
	}
	s.docs = append(s.docs[:pos], s.docs[pos+1:]...)
	delete(s.index, id)
	for i := pos; i < len(s.docs); i++ {
		s.index[s.docs[i].ID] = i
	}
}

// GetDocument returns the document with the given id, or nil if absent.
func (s *DocumentStore) GetDocument(id string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if pos, ok := s.index[id]; ok {
		return s.docs[pos]
	}
	return nil
}

// Snapshot returns the documents in insertion order. The returned slice is
// a copy, so retrieval can iterate it without holding the store lock; the
// documents themselves are immutable and safe to share.
func (s *DocumentStore) Snapshot() []*Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make([]*Document, len(s.docs))
	copy(snapshot, s.docs)
	return snapshot
}

func (s *DocumentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// LoadDir ingests every .txt and .md file in dir as a document, using the
// file name (without extension) as the title. Returns the number of
// documents added.
func (s *DocumentStore) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read document directory %s: %w", dir, err)
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".md" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		contentBytes, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Skipping %s: %v", path, err)
			continue
		}
		content := string(contentBytes)
		if strings.TrimSpace(content) == "" {
			log.Printf("Skipping %s: file is empty", path)
			continue
		}
		title := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		s.AddDocument(title, content)
		count++
	}
	return count, nil
}
