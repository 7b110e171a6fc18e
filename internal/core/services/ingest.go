package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/time/rate"

	"github.com/blugen-labs/lexrag/internal/chunker"
	"github.com/blugen-labs/lexrag/internal/core/domain"
	"github.com/blugen-labs/lexrag/internal/core/ports/driven"
	"github.com/blugen-labs/lexrag/internal/core/ports/driving"
	"github.com/blugen-labs/lexrag/internal/logger"
	"github.com/blugen-labs/lexrag/internal/readers"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// Default ingestion tuning.
const (
	defaultWorkers        = 4
	defaultEmbedBatchSize = 64
	defaultMaxAttempts    = 3
	retryBaseDelay        = 500 * time.Millisecond

	// snippetLength bounds the excerpt stored in each index entry.
	snippetLength = 160
)

// IngestService builds the document store and vector index from a
// corpus directory. Documents are processed concurrently; a document
// that fails is logged and skipped so one bad file cannot abort a
// batch.
type IngestService struct {
	readers  *readers.Registry
	chunker  *chunker.Chunker
	embedder driven.EmbeddingService
	docStore driven.DocumentStore
	index    driven.VectorIndex

	workers     int
	batchSize   int
	maxAttempts int
	limiter     *rate.Limiter
}

// IngestOption configures an IngestService.
type IngestOption func(*IngestService)

// WithWorkers sets the number of concurrent document workers.
func WithWorkers(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithEmbedBatchSize sets how many chunks are embedded per API call.
func WithEmbedBatchSize(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithMaxAttempts sets how many times a failed embedding call is tried.
func WithMaxAttempts(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithRateLimit caps embedding calls per second across all workers.
// Zero leaves the rate unlimited.
func WithRateLimit(perSecond float64) IngestOption {
	return func(s *IngestService) {
		if perSecond > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// NewIngestService creates an ingest service.
func NewIngestService(
	registry *readers.Registry,
	chk *chunker.Chunker,
	embedder driven.EmbeddingService,
	docStore driven.DocumentStore,
	index driven.VectorIndex,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		readers:     registry,
		chunker:     chk,
		embedder:    embedder,
		docStore:    docStore,
		index:       index,
		workers:     defaultWorkers,
		batchSize:   defaultEmbedBatchSize,
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IngestDir ingests every supported file under root and persists the
// index once the batch completes.
func (s *IngestService) IngestDir(ctx context.Context, root string) (*driving.IngestReport, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve corpus root: %w", err)
	}

	logger.Section("Ingestion")
	logger.Debug("Corpus root: %s", root)

	var files []string
	report := &driving.IngestReport{}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		name := d.Name()
		if d.IsDir() {
			// Skip hidden directories, including the data dir itself
			if path != root && strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if !s.readers.Supported(path) {
			report.Skipped++
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk corpus: %w", err)
	}

	logger.Debug("Found %d supported files (%d skipped)", len(files), report.Skipped)

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, path := range files {
		path := path
		wg.Add(1)
		task := func() {
			defer wg.Done()
			chunks, err := s.ingestOne(ctx, root, path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Warn("Failed to ingest %s: %v", path, err)
				report.Failed++
				return
			}
			report.Documents++
			report.Chunks += chunks
		}
		if err := pool.Submit(task); err != nil {
			// Pool rejected the task (released or overloaded): run inline
			task()
		}
	}
	wg.Wait()

	if err := s.index.Save(); err != nil {
		return report, fmt.Errorf("save index: %w", err)
	}

	logger.Info("Ingested %d documents (%d chunks, %d failed, %d skipped)",
		report.Documents, report.Chunks, report.Failed, report.Skipped)

	return report, ctx.Err()
}

// IngestFile ingests a single file under root and persists the index.
func (s *IngestService) IngestFile(ctx context.Context, root, path string) error {
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve corpus root: %w", err)
	}
	path, err = filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve file path: %w", err)
	}

	if _, err := s.ingestOne(ctx, root, path); err != nil {
		return err
	}
	return s.index.Save()
}

// ingestOne runs the full pipeline for a single file: read, chunk,
// embed, persist, index. Returns the number of chunks indexed.
func (s *IngestService) ingestOne(ctx context.Context, root, path string) (int, error) {
	reader, err := s.readers.ForPath(path)
	if err != nil {
		return 0, err
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return 0, fmt.Errorf("relativise path: %w", err)
	}
	rel = filepath.ToSlash(rel)

	result, err := reader.Read(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("read document: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat document: %w", err)
	}

	doc := &domain.Document{
		ID:         s.documentID(ctx, rel),
		Path:       rel,
		Filename:   filepath.Base(rel),
		Category:   categoryOf(rel),
		Folder:     folderOf(rel),
		ByteLength: int(info.Size()),
		PageCount:  len(result.Pages),
		PageBounds: result.Pages,
		CreatedAt:  time.Now().UTC(),
	}

	chunks, err := s.chunker.Chunk(doc, result.Text)
	if err != nil {
		return 0, err
	}

	if err := s.embedChunks(ctx, chunks); err != nil {
		return 0, err
	}

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return 0, fmt.Errorf("save document: %w", err)
	}
	if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
		return 0, fmt.Errorf("save chunks: %w", err)
	}

	entries := make([]domain.IndexEntry, len(chunks))
	for i, c := range chunks {
		entries[i] = domain.IndexEntry{
			ChunkID:    c.ID,
			DocumentID: c.DocumentID,
			Ordinal:    c.Ordinal,
			Vector:     c.Embedding,
			Category:   doc.Category,
			Filename:   doc.Filename,
			Folder:     doc.Folder,
			Snippet:    snippet(c.Content),
		}
	}
	if err := s.index.Add(ctx, entries); err != nil {
		return 0, fmt.Errorf("index chunks: %w", err)
	}

	logger.Debug("Ingested %s: %d chunks", rel, len(chunks))
	return len(chunks), nil
}

// embedChunks fills in chunk embeddings, batching API calls and
// retrying transient embedding failures with exponential backoff.
func (s *IngestService) embedChunks(ctx context.Context, chunks []domain.Chunk) error {
	for start := 0; start < len(chunks); start += s.batchSize {
		end := start + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}

		vectors, err := s.embedWithRetry(ctx, texts)
		if err != nil {
			return err
		}
		for i := range batch {
			batch[i].Embedding = vectors[i]
		}
	}
	return nil
}

// embedWithRetry calls the embedding service, honouring the shared
// rate limit and retrying failures up to maxAttempts.
func (s *IngestService) embedWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err == nil {
			if len(vectors) != len(texts) {
				return nil, fmt.Errorf("%w: got %d embeddings for %d texts",
					domain.ErrEmbeddingService, len(vectors), len(texts))
			}
			return vectors, nil
		}
		lastErr = err

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}
		if attempt < s.maxAttempts {
			delay := retryBaseDelay << (attempt - 1)
			logger.Debug("Embedding attempt %d/%d failed, retrying in %s: %v",
				attempt, s.maxAttempts, delay, err)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

// documentID reuses the existing ID for a previously ingested path so
// re-ingestion replaces the document instead of duplicating it.
func (s *IngestService) documentID(ctx context.Context, rel string) string {
	existing, err := s.docStore.GetDocumentByPath(ctx, rel)
	if err == nil {
		return existing.ID
	}
	return uuid.NewString()
}

// categoryOf derives the category from the first folder segment of the
// corpus-relative path. Files at the corpus root are uncategorized.
func categoryOf(rel string) string {
	if i := strings.IndexByte(rel, '/'); i > 0 {
		return rel[:i]
	}
	logger.Debug("No category folder for %s, using default", rel)
	return "uncategorized"
}

// folderOf returns the directory portion of the relative path, or ""
// for root-level files.
func folderOf(rel string) string {
	dir := filepath.ToSlash(filepath.Dir(rel))
	if dir == "." {
		return ""
	}
	return dir
}

// snippet returns a short leading excerpt of the chunk text.
func snippet(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	if len(content) <= snippetLength {
		return content
	}
	return content[:snippetLength]
}
