package driving

import "context"

// Ingestor builds the index from a corpus directory tree.
type Ingestor interface {
	// IngestDir ingests every supported file under root. Documents
	// that fail are logged and skipped; the batch continues.
	IngestDir(ctx context.Context, root string) (*IngestReport, error)

	// IngestFile ingests a single file located under root, for
	// incremental additions without a full rebuild.
	IngestFile(ctx context.Context, root, path string) error
}

// IngestReport summarises an ingestion run.
type IngestReport struct {
	// Documents is the number of documents successfully ingested.
	Documents int

	// Chunks is the number of chunks indexed.
	Chunks int

	// Failed is the number of documents that could not be ingested.
	Failed int

	// Skipped is the number of files no reader supports.
	Skipped int
}
