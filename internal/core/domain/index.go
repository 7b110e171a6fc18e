package domain

// IndexEntry is what the vector index stores for a chunk: the embedding
// plus a denormalised metadata snapshot, so search results need no join
// back to the document store at query time.
type IndexEntry struct {
	// ChunkID is the stable chunk identity. One entry per chunk.
	ChunkID string

	// DocumentID links back to the source document.
	DocumentID string

	// Ordinal is the chunk's position within its document.
	// Used as the deterministic tie-break on equal similarity.
	Ordinal int

	// Vector is the embedding. All entries in one index share a dimension.
	Vector []float32

	// Category is the document's category at index time.
	Category string

	// Filename is the document's base name at index time.
	Filename string

	// Folder is the document's folder at index time.
	Folder string

	// Snippet is a short leading excerpt of the chunk text, kept for
	// result display without a store lookup.
	Snippet string
}
