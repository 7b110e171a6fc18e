package driven

import (
	"context"

	"github.com/blugen-labs/lexrag/internal/core/domain"
)

// VectorIndex stores (vector, metadata snapshot) pairs and answers
// nearest-neighbour queries by similarity. The index exclusively owns
// its IndexEntry records.
//
// Writes are serialised by the implementation; reads may proceed
// concurrently with writes and never observe a partially written entry.
type VectorIndex interface {
	// Add upserts entries keyed by chunk ID. Safe to call repeatedly
	// for incremental ingestion; re-adding an entry replaces it.
	Add(ctx context.Context, entries []domain.IndexEntry) error

	// Search returns the top-k entries by similarity descending.
	// On equal similarity the entry with the smaller chunk ordinal wins.
	// A nil filter searches the whole index.
	Search(ctx context.Context, vector []float32, k int, filter *SearchFilter) ([]VectorHit, error)

	// Count returns the number of entries in the index.
	Count() int

	// Save persists the index to its on-disk representation.
	Save() error

	// Close saves pending changes and releases resources.
	Close() error
}

// SearchFilter restricts search results by metadata.
type SearchFilter struct {
	// Category matches entries with this exact category.
	Category string
}

// VectorHit is a single similarity search result.
type VectorHit struct {
	// Entry is the matched index entry.
	Entry domain.IndexEntry

	// Similarity is the cosine similarity to the query vector.
	Similarity float64
}
