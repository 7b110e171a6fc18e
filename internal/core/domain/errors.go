package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file type no reader handles.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrEmptyDocument indicates a document's extracted text is empty
	// or whitespace-only. Such documents cannot be chunked.
	ErrEmptyDocument = errors.New("document is empty")

	// ErrEmbeddingService indicates the upstream embedding service failed.
	// Build-time callers retry with backoff; query-time callers surface
	// it immediately.
	ErrEmbeddingService = errors.New("embedding service failed")

	// ErrGenerationService indicates the upstream generation service
	// failed. Never silently replaced with a cached or canned answer.
	ErrGenerationService = errors.New("generation service failed")

	// ErrCorruptIndex indicates the on-disk vector index cannot be
	// trusted, e.g. its stored dimensionality disagrees with the
	// configured embedder.
	ErrCorruptIndex = errors.New("corrupt vector index")

	// ErrNoResults indicates a search against an empty index.
	// A non-empty index with weak matches still returns its best k.
	ErrNoResults = errors.New("index is empty")

	// ErrMissingCredential indicates no API key is configured for the
	// embedding and generation services. Raised at startup, not on
	// first request.
	ErrMissingCredential = errors.New("missing API credential")
)
