package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wordChunks is a trivial ChunkFunc splitting on sentences, enough to
// exercise the store without pulling in the real chunker.
func wordChunks(text string) []string {
	var chunks []string
	for _, part := range strings.Split(text, ".") {
		part = strings.TrimSpace(part)
		if part != "" {
			chunks = append(chunks, part)
		}
	}
	return chunks
}

func TestAddDocument_PopulatesFields(t *testing.T) {
	s := NewDocumentStore(wordChunks)
	doc := s.AddDocument("notes", "First sentence. Second sentence.")

	require.NotNil(t, doc)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "notes", doc.Title)
	assert.Equal(t, "First sentence. Second sentence.", doc.RawContent)
	assert.Equal(t, []string{"First sentence", "Second sentence"}, doc.Chunks)
	assert.Equal(t, int64(len(doc.RawContent)), doc.SizeBytes)
	assert.False(t, doc.UploadedAt.IsZero())
	assert.Equal(t, 1, s.Len())
}

func TestAddDocument_UniqueIDs(t *testing.T) {
	s := NewDocumentStore(wordChunks)
	a := s.AddDocument("a", "Some text.")
	b := s.AddDocument("b", "Some text.")
	assert.NotEqual(t, a.ID, b.ID)
}

func TestAddDocument_FallbackChunkWhenChunkerYieldsNothing(t *testing.T) {
	s := NewDocumentStore(func(string) []string { return nil })
	doc := s.AddDocument("degenerate", "content without any chunks")

	require.Len(t, doc.Chunks, 1)
	assert.Equal(t, "content without any chunks", doc.Chunks[0])
}

func TestDeleteDocument_UnknownIDIsNoOp(t *testing.T) {
	s := NewDocumentStore(wordChunks)
	s.AddDocument("keep", "Still here.")

	s.DeleteDocument("no-such-id")
	assert.Equal(t, 1, s.Len())

	// Deleting twice is equally harmless.
	s.DeleteDocument("no-such-id")
	assert.Equal(t, 1, s.Len())
}

func TestDeleteDocument_RemovesAndPreservesOrder(t *testing.T) {
	s := NewDocumentStore(wordChunks)
	first := s.AddDocument("first", "One.")
	second := s.AddDocument("second", "Two.")
	third := s.AddDocument("third", "Three.")

	s.DeleteDocument(second.ID)

	snapshot := s.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, first.ID, snapshot[0].ID)
	assert.Equal(t, third.ID, snapshot[1].ID)
	assert.Nil(t, s.GetDocument(second.ID))
	assert.NotNil(t, s.GetDocument(third.ID))
}

func TestSnapshot_IsolatedFromLaterMutations(t *testing.T) {
	s := NewDocumentStore(wordChunks)
	s.AddDocument("first", "One.")

	snapshot := s.Snapshot()
	s.AddDocument("second", "Two.")

	assert.Len(t, snapshot, 1)
	assert.Equal(t, 2, s.Len())
}

func TestGetDocument(t *testing.T) {
	s := NewDocumentStore(wordChunks)
	doc := s.AddDocument("findme", "Hello there.")

	found := s.GetDocument(doc.ID)
	require.NotNil(t, found)
	assert.Equal(t, "findme", found.Title)

	assert.Nil(t, s.GetDocument("missing"))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alpha.txt"), []byte("Alpha text. More alpha."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "beta.md"), []byte("Beta text."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.pdf"), []byte("binary-ish"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.txt"), []byte("   "), 0o644))

	s := NewDocumentStore(wordChunks)
	n, err := s.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, s.Len())

	titles := make(map[string]bool)
	for _, doc := range s.Snapshot() {
		titles[doc.Title] = true
	}
	assert.True(t, titles["alpha"])
	assert.True(t, titles["beta"])
}

func TestLoadDir_MissingDirectory(t *testing.T) {
	s := NewDocumentStore(wordChunks)
	_, err := s.LoadDir(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}
