package driven

import "context"

// EmbeddingService generates vector embeddings from text. It is used
// both at index-build time (batched) and at query time (single text).
//
// Embeddings are a pure function of text content for a given model
// version, so the same text always maps to the same vector.
//
// Implementations may include:
//   - Gemini (gemini-embedding-001, text-embedding-004)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one call.
	// More efficient than calling Embed in a loop during index build.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 768, 1536, 3072).
	// The vector index is validated against this at load time.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
