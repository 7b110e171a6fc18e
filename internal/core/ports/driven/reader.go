package driven

import (
	"context"

	"github.com/blugen-labs/lexrag/internal/core/domain"
)

// DocumentReader extracts text and page metadata from a source file.
// The PDF-to-text mechanics are a black box behind this port.
type DocumentReader interface {
	// Extensions returns the lower-case file extensions this reader
	// handles, including the leading dot.
	Extensions() []string

	// Read extracts the document text and per-page character bounds.
	Read(ctx context.Context, path string) (*ReadResult, error)
}

// ReadResult is the output of text extraction.
type ReadResult struct {
	// Text is the full extracted text.
	Text string

	// Pages are the character bounds of each page within Text,
	// in page order. Always at least one page for non-empty text.
	Pages []domain.PageRange
}
