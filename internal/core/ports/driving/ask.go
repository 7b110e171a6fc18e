package driving

import (
	"context"

	"github.com/blugen-labs/lexrag/internal/core/domain"
)

// AskService answers natural-language questions against the indexed
// corpus with source attribution.
type AskService interface {
	// Ask retrieves relevant chunks, composes an answer and returns it
	// with citations. The context bounds all upstream calls; cancelling
	// it abandons in-flight requests.
	Ask(ctx context.Context, question string, opts AskOptions) (*domain.Answer, error)
}

// AskOptions configures a single question.
type AskOptions struct {
	// Category restricts retrieval to one category when non-empty.
	Category string

	// K overrides the number of chunks retrieved. Zero means default.
	K int

	// Expand enables LLM query expansion before retrieval.
	Expand bool
}
