package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/blugen-labs/lexrag/internal/core/domain"
	"github.com/blugen-labs/lexrag/internal/core/ports/driven"
	"github.com/blugen-labs/lexrag/internal/logger"
)

// DefaultK is the number of chunks retrieved when the query does not
// specify one.
const DefaultK = 4

// Retriever turns a question into a ranked list of relevant chunks.
// It embeds the query once and delegates ranking to the vector index.
type Retriever struct {
	index    driven.VectorIndex
	embedder driven.EmbeddingService

	// threshold drops hits below this similarity. Zero disables it.
	threshold float64
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever)

// WithThreshold drops results whose similarity falls below t.
// Disabled by default: a non-empty index always returns its best k.
func WithThreshold(t float64) RetrieverOption {
	return func(r *Retriever) {
		r.threshold = t
	}
}

// NewRetriever creates a retriever over the given index and embedder.
func NewRetriever(index driven.VectorIndex, embedder driven.EmbeddingService, opts ...RetrieverOption) *Retriever {
	r := &Retriever{
		index:    index,
		embedder: embedder,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve returns the top-k chunks for the query, best first, with
// contiguous 1-based ranks. Searching an empty index returns
// ErrNoResults; a query the embedding service rejects is not retried.
func (r *Retriever) Retrieve(ctx context.Context, query domain.Query) (*domain.RetrievalResult, error) {
	text := strings.TrimSpace(query.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	if r.index.Count() == 0 {
		return nil, fmt.Errorf("%w: ingest documents before querying", domain.ErrNoResults)
	}

	k := query.K
	if k <= 0 {
		k = DefaultK
	}

	logger.Section("Retrieval")
	logger.Debug("Query: %q (k=%d, category=%q)", text, k, query.Category)

	vector, err := r.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	var filter *driven.SearchFilter
	if query.Category != "" {
		filter = &driven.SearchFilter{Category: query.Category}
	}

	hits, err := r.index.Search(ctx, vector, k, filter)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	result := &domain.RetrievalResult{
		Hits: make([]domain.RetrievedChunk, 0, len(hits)),
	}
	for _, hit := range hits {
		if r.threshold > 0 && hit.Similarity < r.threshold {
			break // hits arrive in descending similarity
		}
		result.Hits = append(result.Hits, domain.RetrievedChunk{
			Entry: hit.Entry,
			Score: hit.Similarity,
			Rank:  len(result.Hits) + 1,
		})
	}

	for _, h := range result.Hits {
		logger.Debug("  Rank %d: %s (%.4f)", h.Rank, h.Entry.ChunkID, h.Score)
	}

	return result, nil
}
