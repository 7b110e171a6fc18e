package driven

import (
	"context"

	"github.com/blugen-labs/lexrag/internal/core/domain"
)

// DocumentStore persists documents and their chunks. It owns both:
// the vector index keeps only denormalised snapshots.
//
// The store is read-only after ingestion completes and needs no
// locking on the read path.
type DocumentStore interface {
	// SaveDocument stores or replaces a document. Documents are keyed
	// by path, so re-ingestion upserts.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores or replaces chunks for a document.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetDocumentByPath retrieves a document by its corpus-relative path.
	GetDocumentByPath(ctx context.Context, path string) (*domain.Document, error)

	// GetChunk retrieves a chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// GetChunks retrieves all chunks for a document in ordinal order.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// ListDocuments returns all documents.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// ListCategories returns the distinct categories across documents.
	ListCategories(ctx context.Context) ([]string, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error
}
