package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// PageRange describes the character offsets a single page occupies
// within a document's extracted text. Offsets are half-open: [Start, End).
type PageRange struct {
	// Page is the 1-based page number in the source file.
	Page int

	// Start is the offset of the first character of the page.
	Start int

	// End is the offset one past the last character of the page.
	End int
}

// Document represents a single ingested source file.
// It is created during ingestion and immutable thereafter;
// re-ingesting the same path replaces it.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Path is the location of the source file relative to the corpus root.
	Path string

	// Filename is the base name of the source file.
	Filename string

	// Category is the organisational category, derived from the first
	// folder segment under the corpus root. Defaults to "uncategorized".
	Category string

	// Folder is the directory portion of Path.
	Folder string

	// ByteLength is the size of the source file in bytes.
	ByteLength int

	// PageCount is the number of pages in the source file.
	// Plain text documents count as a single page.
	PageCount int

	// PageBounds maps each page to its character range within the
	// extracted text, in page order.
	PageBounds []PageRange

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// SourceSpan locates a chunk within its document's extracted text.
// Pages lists the per-page sub-ranges the span covers, in page order;
// a span confined to one page has exactly one entry.
type SourceSpan struct {
	// Start is the chunk's first character offset in the document text.
	Start int

	// End is one past the chunk's last character offset.
	End int

	// Pages are the page-aligned sub-ranges of [Start, End).
	Pages []PageRange
}

// Chunk is the unit of embedding and retrieval: a bounded contiguous
// span of a document's text. Ordinals are unique within a document and
// follow document order.
type Chunk struct {
	// ID is the stable identity of the chunk, derived from the document
	// path and ordinal so re-ingestion upserts rather than duplicates.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Ordinal is the 0-based position within the document.
	Ordinal int

	// Content is the chunk text.
	Content string

	// Span locates Content within the document's extracted text.
	Span SourceSpan

	// Embedding is the vector representation. Nil until embedded.
	Embedding []float32
}

// ChunkID derives the stable chunk identity from a document path and
// chunk ordinal. The same (path, ordinal) pair always yields the same
// ID, which is what makes re-ingestion an upsert.
func ChunkID(path string, ordinal int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s#%d", path, ordinal)))
	return hex.EncodeToString(sum[:16])
}

// HighlightRegion is the page-level area to mark in a document preview.
// Offsets are relative to the document's extracted text.
type HighlightRegion struct {
	// Page is the 1-based page number.
	Page int

	// Start is the first highlighted character offset.
	Start int

	// End is one past the last highlighted character offset.
	End int
}
