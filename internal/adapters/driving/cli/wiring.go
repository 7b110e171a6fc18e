package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/blugen-labs/lexrag/internal/adapters/driven/ai"
	"github.com/blugen-labs/lexrag/internal/adapters/driven/config/file"
	"github.com/blugen-labs/lexrag/internal/adapters/driven/index/flat"
	"github.com/blugen-labs/lexrag/internal/adapters/driven/storage/sqlite"
	"github.com/blugen-labs/lexrag/internal/chunker"
	"github.com/blugen-labs/lexrag/internal/core/ports/driven"
	"github.com/blugen-labs/lexrag/internal/core/services"
	"github.com/blugen-labs/lexrag/internal/readers"
	"github.com/blugen-labs/lexrag/internal/readers/pdf"
	"github.com/blugen-labs/lexrag/internal/readers/plaintext"
)

// defaultProvider is used when the config store names none.
const defaultProvider = "gemini"

// Wired infrastructure, created on demand. Package-level so commands
// share one instance per process.
var (
	configStore  *file.ConfigStore
	promptStore  *file.PromptStore
	credResolver *services.CredentialResolver
	sqliteStore  *sqlite.Store
	vectorIndex  *flat.Index
	embedSvc     driven.EmbeddingService
	genSvc       driven.GenerationService
)

// resolveDataDir returns the --data-dir flag value or ~/.lexrag.
func resolveDataDir() (string, error) {
	if dataDir != "" {
		return dataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".lexrag"), nil
}

// ensureConfig wires the config store, prompt store and credential
// resolver.
func ensureConfig() error {
	if configStore != nil {
		return nil
	}

	dir, err := resolveDataDir()
	if err != nil {
		return err
	}

	configStore, err = file.NewConfigStore(dir)
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}
	promptStore, err = file.NewPromptStore(filepath.Join(dir, "prompts"))
	if err != nil {
		return fmt.Errorf("open prompt store: %w", err)
	}
	credResolver = services.NewCredentialResolver(configStore)
	return nil
}

// provider returns the configured AI provider name.
func provider() string {
	if p := configStore.GetString("ai.provider"); p != "" {
		return p
	}
	return defaultProvider
}

// ensureEmbedder wires and validates the embedding service.
func ensureEmbedder() error {
	if embedSvc != nil {
		return nil
	}
	if err := ensureConfig(); err != nil {
		return err
	}

	p := provider()
	key, err := credResolver.Resolve(p)
	if err != nil {
		return err
	}

	embedSvc, err = ai.CreateAndValidateEmbeddingService(ai.Settings{
		Provider:   ai.Provider(p),
		Model:      configStore.GetString("embedding.model"),
		BaseURL:    configStore.GetString("ai.base_url"),
		APIKey:     key,
		Dimensions: configStore.GetInt("embedding.dimensions"),
	})
	return err
}

// ensureGenerator wires and validates the generation service.
func ensureGenerator() error {
	if genSvc != nil {
		return nil
	}
	if err := ensureConfig(); err != nil {
		return err
	}

	p := provider()
	key, err := credResolver.Resolve(p)
	if err != nil {
		return err
	}

	genSvc, err = ai.CreateAndValidateGenerationService(ai.Settings{
		Provider: ai.Provider(p),
		Model:    configStore.GetString("generation.model"),
		BaseURL:  configStore.GetString("ai.base_url"),
		APIKey:   key,
	})
	return err
}

// ensureStores wires the document store and vector index. The index
// dimension follows the configured embedder, so the embedder is wired
// first.
func ensureStores() error {
	if sqliteStore != nil && vectorIndex != nil {
		return nil
	}
	if err := ensureEmbedder(); err != nil {
		return err
	}

	dir, err := resolveDataDir()
	if err != nil {
		return err
	}

	if sqliteStore == nil {
		sqliteStore, err = sqlite.NewStore(filepath.Join(dir, "data"))
		if err != nil {
			return fmt.Errorf("open document store: %w", err)
		}
	}
	if vectorIndex == nil {
		vectorIndex, err = flat.Open(filepath.Join(dir, "index"), embedSvc.Dimensions())
		if err != nil {
			return fmt.Errorf("open vector index: %w", err)
		}
	}
	return nil
}

// newReaderRegistry builds the reader registry for the supported
// document types.
func newReaderRegistry() *readers.Registry {
	registry := readers.NewRegistry()
	registry.Register(plaintext.New())
	registry.Register(pdf.New())
	return registry
}

// newChunker builds a chunker from config, falling back to defaults.
func newChunker() *chunker.Chunker {
	var opts []chunker.Option
	if size := configStore.GetInt("chunk.size"); size > 0 {
		opts = append(opts, chunker.WithChunkSize(size))
	}
	if overlap := configStore.GetInt("chunk.overlap"); overlap > 0 {
		opts = append(opts, chunker.WithOverlap(overlap))
	}
	if minSize := configStore.GetInt("chunk.min_size"); minSize > 0 {
		opts = append(opts, chunker.WithMinSize(minSize))
	}
	return chunker.New(opts...)
}

// ensureIngestor wires the ingest service.
func ensureIngestor() error {
	if ingestService != nil {
		return nil
	}
	if err := ensureStores(); err != nil {
		return err
	}

	var opts []services.IngestOption
	if n := configStore.GetInt("ingest.workers"); n > 0 {
		opts = append(opts, services.WithWorkers(n))
	}
	if n := configStore.GetInt("ingest.batch_size"); n > 0 {
		opts = append(opts, services.WithEmbedBatchSize(n))
	}
	if n := configStore.GetInt("ingest.max_attempts"); n > 0 {
		opts = append(opts, services.WithMaxAttempts(n))
	}
	if r := configStore.GetFloat("ingest.rate_limit"); r > 0 {
		opts = append(opts, services.WithRateLimit(r))
	}

	ingestService = services.NewIngestService(
		newReaderRegistry(), newChunker(), embedSvc,
		sqliteStore.DocumentStore(), vectorIndex, opts...)
	return nil
}

// ensureAsk wires the ask service.
func ensureAsk() error {
	if askService != nil {
		return nil
	}
	if err := ensureStores(); err != nil {
		return err
	}
	if err := ensureGenerator(); err != nil {
		return err
	}

	var retrieverOpts []services.RetrieverOption
	if t := configStore.GetFloat("retrieve.threshold"); t > 0 {
		retrieverOpts = append(retrieverOpts, services.WithThreshold(t))
	}

	retriever := services.NewRetriever(vectorIndex, embedSvc, retrieverOpts...)
	composer := services.NewComposer(genSvc, promptStore)
	if n := configStore.GetInt("generation.max_tokens"); n > 0 {
		composer.SetMaxTokens(n)
	}

	askService = services.NewAskService(
		retriever, composer, services.NewHighlighter(),
		sqliteStore.DocumentStore(), genSvc, promptStore)
	return nil
}

// closeServices releases wired infrastructure. Safe to call when
// nothing was wired.
func closeServices() {
	if vectorIndex != nil {
		vectorIndex.Close()
		vectorIndex = nil
	}
	if sqliteStore != nil {
		sqliteStore.Close()
		sqliteStore = nil
	}
	if embedSvc != nil {
		embedSvc.Close()
		embedSvc = nil
	}
	if genSvc != nil {
		genSvc.Close()
		genSvc = nil
	}
}
