package domain

// Citation points from an answer back to a source chunk, carrying
// everything the presentation layer needs to attribute and preview it.
type Citation struct {
	// ChunkID identifies the cited chunk.
	ChunkID string

	// Filename is the source document's base name.
	Filename string

	// Category is the source document's category.
	Category string

	// Folder is the source document's folder.
	Folder string

	// Snippet is a short excerpt of the cited chunk.
	Snippet string

	// Regions are the page-level highlight areas for the chunk,
	// one per page its span touches.
	Regions []HighlightRegion
}

// Answer is the composed response to a query. Created per request,
// never persisted.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Citations are the supporting chunks in citation order.
	Citations []Citation
}
