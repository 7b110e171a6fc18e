// Package chunker splits extracted document text into bounded-size
// overlapping chunks that retain their source location.
package chunker

import (
	"strings"

	"github.com/blugen-labs/lexrag/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters
// between consecutive chunks.
const DefaultChunkOverlap = 100

// DefaultMinChunkSize is the default lower bound on chunk length.
// A trailing fragment shorter than this is merged into the previous chunk.
const DefaultMinChunkSize = 200

// Chunker produces ordered, overlapping chunks from document text.
type Chunker struct {
	chunkSize int
	overlap   int
	minSize   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// WithMinSize sets the minimum chunk length in characters.
func WithMinSize(minSize int) Option {
	return func(c *Chunker) {
		if minSize >= 0 {
			c.minSize = minSize
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		minSize:   DefaultMinChunkSize,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must leave a positive stride
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}
	if c.minSize > c.chunkSize {
		c.minSize = c.chunkSize
	}

	return c
}

// Chunk splits text into chunks for the given document. Consecutive
// chunks overlap by the configured amount; each chunk records the page
// ranges its span covers. A document shorter than the chunk size yields
// exactly one chunk. Returns domain.ErrEmptyDocument when text is empty
// or whitespace-only.
func (c *Chunker) Chunk(doc *domain.Document, text string) ([]domain.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyDocument
	}

	stride := c.chunkSize - c.overlap
	textLen := len(text)

	chunks := make([]domain.Chunk, 0, textLen/stride+1)

	for start := 0; start < textLen; start += stride {
		end := start + c.chunkSize
		if end > textLen {
			end = textLen
		}

		// Merge a short trailing fragment into the previous chunk so the
		// final chunk is the only one allowed outside [minSize, chunkSize].
		if end-start < c.minSize && len(chunks) > 0 {
			prev := &chunks[len(chunks)-1]
			prev.Content = text[prev.Span.Start:end]
			prev.Span = c.span(doc, prev.Span.Start, end)
			break
		}

		ordinal := len(chunks)
		chunks = append(chunks, domain.Chunk{
			ID:         domain.ChunkID(doc.Path, ordinal),
			DocumentID: doc.ID,
			Ordinal:    ordinal,
			Content:    text[start:end],
			Span:       c.span(doc, start, end),
		})

		if end == textLen {
			break
		}
	}

	return chunks, nil
}

// span builds the source span for [start, end), intersecting it with
// the document's page bounds. Documents without page bounds get a
// single synthetic page.
func (c *Chunker) span(doc *domain.Document, start, end int) domain.SourceSpan {
	span := domain.SourceSpan{Start: start, End: end}

	if len(doc.PageBounds) == 0 {
		span.Pages = []domain.PageRange{{Page: 1, Start: start, End: end}}
		return span
	}

	for _, pb := range doc.PageBounds {
		if pb.End <= start || pb.Start >= end {
			continue
		}
		pr := domain.PageRange{Page: pb.Page, Start: start, End: end}
		if pb.Start > pr.Start {
			pr.Start = pb.Start
		}
		if pb.End < pr.End {
			pr.End = pb.End
		}
		span.Pages = append(span.Pages, pr)
	}

	return span
}
