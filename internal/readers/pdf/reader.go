// Package pdf reads PDF corpus files, extracting per-page text so
// chunks can be mapped back to a page for highlighting.
package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/blugen-labs/lexrag/internal/core/domain"
	"github.com/blugen-labs/lexrag/internal/core/ports/driven"
)

// Ensure Reader implements the interface.
var _ driven.DocumentReader = (*Reader)(nil)

// pageSeparator joins page texts. It is part of the recorded page
// bounds so offsets stay consistent with the assembled text.
const pageSeparator = "\n"

// Reader extracts text from PDF files.
type Reader struct{}

// New creates a PDF reader.
func New() *Reader {
	return &Reader{}
}

// Extensions returns the file extensions this reader handles.
func (r *Reader) Extensions() []string {
	return []string{".pdf"}
}

// Read extracts text page by page, recording the character bounds of
// each page within the assembled document text. Pages whose text
// cannot be extracted are skipped.
func (r *Reader) Read(ctx context.Context, path string) (*driven.ReadResult, error) {
	f, doc, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	var (
		b     strings.Builder
		pages []domain.PageRange
	)

	for num := 1; num <= doc.NumPage(); num++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := doc.Page(num)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if b.Len() > 0 {
			b.WriteString(pageSeparator)
		}
		start := b.Len()
		b.WriteString(text)
		pages = append(pages, domain.PageRange{Page: num, Start: start, End: b.Len()})
	}

	return &driven.ReadResult{Text: b.String(), Pages: pages}, nil
}
