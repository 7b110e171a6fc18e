// Package plaintext reads plain text and markdown corpus files.
package plaintext

import (
	"context"
	"fmt"
	"os"

	"github.com/blugen-labs/lexrag/internal/core/domain"
	"github.com/blugen-labs/lexrag/internal/core/ports/driven"
)

// Ensure Reader implements the interface.
var _ driven.DocumentReader = (*Reader)(nil)

// Reader handles plain text documents. The whole file counts as a
// single page.
type Reader struct{}

// New creates a plain text reader.
func New() *Reader {
	return &Reader{}
}

// Extensions returns the file extensions this reader handles.
func (r *Reader) Extensions() []string {
	return []string{".txt", ".md"}
}

// Read extracts the file content as a one-page document.
func (r *Reader) Read(_ context.Context, path string) (*driven.ReadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	text := string(data)
	return &driven.ReadResult{
		Text:  text,
		Pages: []domain.PageRange{{Page: 1, Start: 0, End: len(text)}},
	}, nil
}
