package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/blugen-labs/lexrag/internal/core/domain"
	"github.com/blugen-labs/lexrag/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockVectorIndex implements driven.VectorIndex for testing.
// Mutating methods lock because ingestion calls them from worker
// goroutines.
type mockVectorIndex struct {
	mu        sync.Mutex
	entries   map[string]domain.IndexEntry
	hits      []driven.VectorHit
	count     int
	searchErr error
	addErr    error
	saved     int
}

func newMockVectorIndex() *mockVectorIndex {
	return &mockVectorIndex{entries: make(map[string]domain.IndexEntry)}
}

func (m *mockVectorIndex) Add(_ context.Context, entries []domain.IndexEntry) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.entries[e.ChunkID] = e
	}
	return nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, k int, filter *driven.SearchFilter) ([]driven.VectorHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	var hits []driven.VectorHit
	for _, h := range m.hits {
		if filter != nil && h.Entry.Category != filter.Category {
			continue
		}
		hits = append(hits, h)
		if len(hits) == k {
			break
		}
	}
	return hits, nil
}

func (m *mockVectorIndex) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.count > 0 {
		return m.count
	}
	if len(m.entries) > 0 {
		return len(m.entries)
	}
	return len(m.hits)
}

func (m *mockVectorIndex) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved++
	return nil
}

func (m *mockVectorIndex) Close() error { return nil }

// mockEmbedder implements driven.EmbeddingService for testing.
type mockEmbedder struct {
	mu        sync.Mutex
	vector    []float32
	embedErr  error
	failTimes int // fail this many calls before succeeding
	calls     int
	batches   [][]string
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failTimes > 0 {
		m.failTimes--
		return nil, fmt.Errorf("%w: transient", domain.ErrEmbeddingService)
	}
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.batches = append(m.batches, texts)
	vec := m.vector
	if vec == nil {
		vec = []float32{1, 0, 0}
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return 3 }
func (m *mockEmbedder) ModelName() string            { return "mock-embedder" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockGenerator implements driven.GenerationService for testing.
type mockGenerator struct {
	response string
	genErr   error
	prompts  []string
}

func (m *mockGenerator) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.genErr != nil {
		return "", m.genErr
	}
	return m.response, nil
}

func (m *mockGenerator) ModelName() string            { return "mock-generator" }
func (m *mockGenerator) Ping(_ context.Context) error { return nil }
func (m *mockGenerator) Close() error                 { return nil }

// mockDocStore implements driven.DocumentStore for testing.
type mockDocStore struct {
	mu     sync.Mutex
	docs   map[string]*domain.Document // by ID
	byPath map[string]*domain.Document
	chunks map[string]*domain.Chunk // by ID
}

func newMockDocStore() *mockDocStore {
	return &mockDocStore{
		docs:   make(map[string]*domain.Document),
		byPath: make(map[string]*domain.Document),
		chunks: make(map[string]*domain.Chunk),
	}
}

func (m *mockDocStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = doc
	m.byPath[doc.Path] = doc
	return nil
}

func (m *mockDocStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range chunks {
		c := chunks[i]
		m.chunks[c.ID] = &c
	}
	return nil
}

func (m *mockDocStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (m *mockDocStore) GetDocumentByPath(_ context.Context, path string) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.byPath[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (m *mockDocStore) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.chunks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (m *mockDocStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Chunk
	for _, c := range m.chunks {
		if c.DocumentID == documentID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockDocStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Document
	for _, d := range m.docs {
		out = append(out, *d)
	}
	return out, nil
}

func (m *mockDocStore) ListCategories(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, d := range m.docs {
		if !seen[d.Category] {
			seen[d.Category] = true
			out = append(out, d.Category)
		}
	}
	return out, nil
}

func (m *mockDocStore) DeleteDocument(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(m.byPath, doc.Path)
	delete(m.docs, id)
	for cid, c := range m.chunks {
		if c.DocumentID == id {
			delete(m.chunks, cid)
		}
	}
	return nil
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
	loadErr error
}

func newMockPromptStore() *mockPromptStore {
	return &mockPromptStore{
		prompts: map[string]string{
			driven.PromptAnswer:      "Context:\n%s\n\nQuestion: %s",
			driven.PromptQueryExpand: "Expand: %s",
		},
	}
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.loadErr != nil {
		return "", m.loadErr
	}
	p, ok := m.prompts[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	return p, nil
}

// mockConfigStore implements driven.ConfigStore for testing.
type mockConfigStore struct {
	data map[string]any
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{data: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if v, ok := m.data[key].(string); ok {
		return v
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	if v, ok := m.data[key].(int); ok {
		return v
	}
	return 0
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	if v, ok := m.data[key].(float64); ok {
		return v
	}
	return 0
}

func (m *mockConfigStore) Set(key string, value any) error {
	m.data[key] = value
	return nil
}
