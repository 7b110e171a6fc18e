package flat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blugen-labs/lexrag/internal/core/domain"
	"github.com/blugen-labs/lexrag/internal/core/ports/driven"
)

func setupIndex(t *testing.T, dimension int) (*Index, string) {
	t.Helper()

	dir := t.TempDir()
	idx, err := Open(dir, dimension)
	require.NoError(t, err)
	t.Cleanup(func() {
		idx.Close()
	})

	return idx, dir
}

func entry(chunkID string, ordinal int, category string, vector ...float32) domain.IndexEntry {
	return domain.IndexEntry{
		ChunkID:    chunkID,
		DocumentID: "doc-1",
		Ordinal:    ordinal,
		Vector:     vector,
		Category:   category,
		Filename:   "cpc.pdf",
		Folder:     category,
		Snippet:    "snippet " + chunkID,
	}
}

func TestSearch_OrderedBySimilarity(t *testing.T) {
	idx, _ := setupIndex(t, 2)
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, []domain.IndexEntry{
		entry("a", 0, "civil", 1, 0),     // similarity 1.0 to (1,0)
		entry("b", 1, "civil", 0, 1),     // similarity 0.0
		entry("c", 2, "civil", 0.6, 0.8), // similarity 0.6
	}))

	hits, err := idx.Search(ctx, []float32{1, 0}, 3, nil)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "a", hits[0].Entry.ChunkID)
	assert.Equal(t, "c", hits[1].Entry.ChunkID)
	assert.Equal(t, "b", hits[2].Entry.ChunkID)
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i].Similarity, hits[i-1].Similarity)
	}
}

func TestSearch_TopKOnly(t *testing.T) {
	idx, _ := setupIndex(t, 2)
	ctx := context.Background()

	// One strong match, one weak match, k=1: only the strong one returns.
	require.NoError(t, idx.Add(ctx, []domain.IndexEntry{
		entry("strong", 0, "civil", 0.92, 0.39),
		entry("weak", 1, "civil", 0.40, 0.92),
	}))

	hits, err := idx.Search(ctx, []float32{1, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "strong", hits[0].Entry.ChunkID)
}

func TestSearch_TieBreakBySmallerOrdinal(t *testing.T) {
	idx, _ := setupIndex(t, 2)
	ctx := context.Background()

	// Identical vectors, so identical similarity.
	require.NoError(t, idx.Add(ctx, []domain.IndexEntry{
		entry("later", 5, "civil", 1, 1),
		entry("earlier", 2, "civil", 1, 1),
	}))

	hits, err := idx.Search(ctx, []float32{1, 1}, 2, nil)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "earlier", hits[0].Entry.ChunkID)
	assert.Equal(t, "later", hits[1].Entry.ChunkID)
}

func TestSearch_CategoryFilter(t *testing.T) {
	idx, _ := setupIndex(t, 2)
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, []domain.IndexEntry{
		entry("civ-1", 0, "civil", 1, 0),
		entry("crim-1", 0, "criminal", 0.9, 0.1),
		entry("crim-2", 1, "criminal", 0.5, 0.5),
	}))

	hits, err := idx.Search(ctx, []float32{1, 0}, 2, &driven.SearchFilter{Category: "criminal"})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "crim-1", hits[0].Entry.ChunkID)
	assert.Equal(t, "crim-2", hits[1].Entry.ChunkID)
}

func TestAdd_Idempotent(t *testing.T) {
	idx, _ := setupIndex(t, 2)
	ctx := context.Background()

	entries := []domain.IndexEntry{
		entry("a", 0, "civil", 1, 0),
		entry("b", 1, "civil", 0, 1),
	}
	require.NoError(t, idx.Add(ctx, entries))
	first, err := idx.Search(ctx, []float32{1, 0}, 10, nil)
	require.NoError(t, err)

	// Re-adding the same entries upserts; results are unchanged.
	require.NoError(t, idx.Add(ctx, entries))
	second, err := idx.Search(ctx, []float32{1, 0}, 10, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, idx.Count())
	assert.Equal(t, first, second)
}

func TestAdd_DimensionMismatch(t *testing.T) {
	idx, _ := setupIndex(t, 3)
	ctx := context.Background()

	err := idx.Add(ctx, []domain.IndexEntry{entry("a", 0, "civil", 1, 0)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, idx.Count())
}

func TestPersistence_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	idx, err := Open(dir, 2)
	require.NoError(t, err)
	require.NoError(t, idx.Add(ctx, []domain.IndexEntry{
		entry("a", 0, "civil", 1, 0),
		entry("b", 1, "criminal", 0, 1),
	}))
	require.NoError(t, idx.Close())

	reopened, err := Open(dir, 2)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, 2, reopened.Count())

	hits, err := reopened.Search(ctx, []float32{1, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].Entry.ChunkID)
	assert.Equal(t, "civil", hits[0].Entry.Category)
	assert.Equal(t, "cpc.pdf", hits[0].Entry.Filename)
	assert.Equal(t, "snippet a", hits[0].Entry.Snippet)
}

func TestOpen_DimensionalityMismatchFails(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	vec := make([]float32, 768)
	vec[0] = 1

	idx, err := Open(dir, 768)
	require.NoError(t, err)
	require.NoError(t, idx.Add(ctx, []domain.IndexEntry{{
		ChunkID: "a", DocumentID: "doc-1", Vector: vec, Category: "civil",
	}}))
	require.NoError(t, idx.Close())

	// Reopening with a 384-dimension embedder must fail cleanly.
	_, err = Open(dir, 384)
	assert.ErrorIs(t, err, domain.ErrCorruptIndex)
}

func TestSearch_EmptyIndex(t *testing.T) {
	idx, _ := setupIndex(t, 2)

	hits, err := idx.Search(context.Background(), []float32{1, 0}, 5, nil)
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.Equal(t, 0, idx.Count())
}
