package domain

// Query is a retrieval request against the vector index.
type Query struct {
	// Text is the user's question.
	Text string

	// Category restricts results to one category when non-empty.
	Category string

	// K is the desired number of results. Zero means the configured default.
	K int
}

// RetrievedChunk is a single ranked retrieval hit.
type RetrievedChunk struct {
	// Entry is the matched index entry.
	Entry IndexEntry

	// Score is the similarity to the query, in [-1, 1] for cosine.
	Score float64

	// Rank is 1-based and contiguous.
	Rank int
}

// RetrievalResult is an ordered sequence of hits. Scores are
// monotonically non-increasing by rank.
type RetrievalResult struct {
	// Hits are the ranked results, best first.
	Hits []RetrievedChunk
}
