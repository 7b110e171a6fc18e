package services

import "github.com/blugen-labs/lexrag/internal/core/domain"

// Highlighter maps a chunk back to the page regions it came from, so a
// viewer can mark the cited text in the source document.
//
// Locate is pure: it only rearranges offsets the chunker recorded at
// ingestion time, so it cannot fail.
type Highlighter struct{}

// NewHighlighter creates a highlighter.
func NewHighlighter() *Highlighter {
	return &Highlighter{}
}

// Locate returns one highlight region per page the chunk's span
// touches, in page order. A chunk confined to a single page yields
// exactly one region.
func (h *Highlighter) Locate(chunk *domain.Chunk) []domain.HighlightRegion {
	regions := make([]domain.HighlightRegion, 0, len(chunk.Span.Pages))
	for _, pr := range chunk.Span.Pages {
		regions = append(regions, domain.HighlightRegion{
			Page:  pr.Page,
			Start: pr.Start,
			End:   pr.End,
		})
	}
	return regions
}
