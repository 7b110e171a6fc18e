package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blugen-labs/lexrag/internal/core/domain"
	"github.com/blugen-labs/lexrag/internal/core/ports/driven"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) driven.DocumentStore {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})

	return store.DocumentStore()
}

func testDocument(id, path string) *domain.Document {
	return &domain.Document{
		ID:         id,
		Path:       path,
		Filename:   "cpc.pdf",
		Category:   "civil",
		Folder:     "civil",
		ByteLength: 9000,
		PageCount:  3,
		PageBounds: []domain.PageRange{
			{Page: 1, Start: 0, End: 3000},
			{Page: 2, Start: 3000, End: 6000},
			{Page: 3, Start: 6000, End: 9000},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestSaveAndGetDocument(t *testing.T) {
	docs := setupTestStore(t)
	ctx := context.Background()

	doc := testDocument("doc-1", "civil/cpc.pdf")
	require.NoError(t, docs.SaveDocument(ctx, doc))

	got, err := docs.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, doc.Path, got.Path)
	assert.Equal(t, doc.Category, got.Category)
	assert.Equal(t, doc.PageBounds, got.PageBounds)

	byPath, err := docs.GetDocumentByPath(ctx, "civil/cpc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", byPath.ID)
}

func TestGetDocument_NotFound(t *testing.T) {
	docs := setupTestStore(t)

	_, err := docs.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = docs.GetDocumentByPath(context.Background(), "missing/path.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaveDocument_UpsertsByPath(t *testing.T) {
	docs := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, docs.SaveDocument(ctx, testDocument("doc-1", "civil/cpc.pdf")))

	updated := testDocument("doc-1", "civil/cpc.pdf")
	updated.PageCount = 5
	require.NoError(t, docs.SaveDocument(ctx, updated))

	all, err := docs.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 5, all[0].PageCount)
}

func TestSaveAndGetChunks(t *testing.T) {
	docs := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, docs.SaveDocument(ctx, testDocument("doc-1", "civil/cpc.pdf")))

	chunks := []domain.Chunk{
		{
			ID: domain.ChunkID("civil/cpc.pdf", 0), DocumentID: "doc-1", Ordinal: 0,
			Content: "first chunk",
			Span: domain.SourceSpan{Start: 0, End: 11, Pages: []domain.PageRange{
				{Page: 1, Start: 0, End: 11},
			}},
		},
		{
			ID: domain.ChunkID("civil/cpc.pdf", 1), DocumentID: "doc-1", Ordinal: 1,
			Content: "second chunk",
			Span: domain.SourceSpan{Start: 9, End: 21, Pages: []domain.PageRange{
				{Page: 1, Start: 9, End: 21},
			}},
		},
	}
	require.NoError(t, docs.SaveChunks(ctx, chunks))

	got, err := docs.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Ordinal)
	assert.Equal(t, 1, got[1].Ordinal)
	assert.Equal(t, chunks[0].Span, got[0].Span)

	one, err := docs.GetChunk(ctx, chunks[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "second chunk", one.Content)
}

func TestSaveChunks_UpsertsByID(t *testing.T) {
	docs := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, docs.SaveDocument(ctx, testDocument("doc-1", "civil/cpc.pdf")))

	chunk := domain.Chunk{
		ID: domain.ChunkID("civil/cpc.pdf", 0), DocumentID: "doc-1", Ordinal: 0,
		Content: "original",
		Span:    domain.SourceSpan{Start: 0, End: 8},
	}
	require.NoError(t, docs.SaveChunks(ctx, []domain.Chunk{chunk}))

	chunk.Content = "replaced"
	require.NoError(t, docs.SaveChunks(ctx, []domain.Chunk{chunk}))

	got, err := docs.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "replaced", got[0].Content)
}

func TestDeleteDocument_CascadesToChunks(t *testing.T) {
	docs := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, docs.SaveDocument(ctx, testDocument("doc-1", "civil/cpc.pdf")))
	require.NoError(t, docs.SaveChunks(ctx, []domain.Chunk{{
		ID: "c1", DocumentID: "doc-1", Ordinal: 0, Content: "text",
	}}))

	require.NoError(t, docs.DeleteDocument(ctx, "doc-1"))

	_, err := docs.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	chunks, err := docs.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestListCategories(t *testing.T) {
	docs := setupTestStore(t)
	ctx := context.Background()

	a := testDocument("doc-1", "civil/cpc.pdf")
	b := testDocument("doc-2", "criminal/crpc.pdf")
	b.Category = "criminal"
	require.NoError(t, docs.SaveDocument(ctx, a))
	require.NoError(t, docs.SaveDocument(ctx, b))

	categories, err := docs.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"civil", "criminal"}, categories)
}
