// Package flat provides an exact nearest-neighbour vector index with a
// durable on-disk representation. Vectors live in a binary file with a
// validated header; the per-entry metadata snapshot lives in a bbolt
// database alongside it. Search is a full scan, which is exact and
// fast enough for a fixed corpus of legal documents.
package flat

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	bolt "go.etcd.io/bbolt"

	"github.com/blugen-labs/lexrag/internal/core/domain"
	"github.com/blugen-labs/lexrag/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Metric identifies the similarity metric the index was built with.
// It is recorded in the on-disk header and must match at load time.
type Metric byte

// MetricCosine is cosine similarity, the only metric currently
// supported. Embedding services used here are normalised for it.
const MetricCosine Metric = 0

// Index is a flat cosine-similarity vector index.
//
// Writes are serialised by the mutex; searches take the read lock so
// they never observe a partially written entry.
type Index struct {
	mu        sync.RWMutex
	dir       string
	dimension int
	metric    Metric
	entries   map[string]domain.IndexEntry
	db        *bolt.DB
	dirty     bool
}

// Open opens or creates an index in dir for vectors of the given
// dimension. An existing index whose stored dimensionality or metric
// disagrees fails with domain.ErrCorruptIndex and exposes no partial
// state.
func Open(dir string, dimension int) (*Index, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive", domain.ErrInvalidInput)
	}

	db, err := openEntriesDB(dir)
	if err != nil {
		return nil, err
	}

	idx := &Index{
		dir:       dir,
		dimension: dimension,
		metric:    MetricCosine,
		entries:   make(map[string]domain.IndexEntry),
		db:        db,
	}

	loaded, err := idx.load()
	if err != nil {
		db.Close()
		return nil, err
	}
	idx.entries = loaded

	return idx, nil
}

// Add upserts entries keyed by chunk ID. Re-adding an entry replaces
// the previous one, so repeated ingestion of the same document leaves
// search results unchanged.
func (idx *Index) Add(_ context.Context, entries []domain.IndexEntry) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, e := range entries {
		if len(e.Vector) != idx.dimension {
			return fmt.Errorf("%w: entry %s has dimension %d, index expects %d",
				domain.ErrInvalidInput, e.ChunkID, len(e.Vector), idx.dimension)
		}
	}

	for _, e := range entries {
		idx.entries[e.ChunkID] = e
	}
	idx.dirty = len(entries) > 0 || idx.dirty

	return nil
}

// Search returns the top-k entries by cosine similarity descending.
// Entries with equal similarity are ordered by smaller chunk ordinal,
// then chunk ID, for determinism. A category filter is applied after
// ranking: candidates are consumed in rank order until k matches are
// found or the index is exhausted.
func (idx *Index) Search(_ context.Context, vector []float32, k int, filter *driven.SearchFilter) ([]driven.VectorHit, error) {
	if len(vector) != idx.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, index expects %d",
			domain.ErrInvalidInput, len(vector), idx.dimension)
	}
	if k <= 0 {
		return nil, nil
	}

	idx.mu.RLock()
	ranked := make([]driven.VectorHit, 0, len(idx.entries))
	for _, e := range idx.entries {
		ranked = append(ranked, driven.VectorHit{
			Entry:      e,
			Similarity: cosine(vector, e.Vector),
		})
	}
	idx.mu.RUnlock()

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Similarity != ranked[j].Similarity {
			return ranked[i].Similarity > ranked[j].Similarity
		}
		if ranked[i].Entry.Ordinal != ranked[j].Entry.Ordinal {
			return ranked[i].Entry.Ordinal < ranked[j].Entry.Ordinal
		}
		return ranked[i].Entry.ChunkID < ranked[j].Entry.ChunkID
	})

	hits := make([]driven.VectorHit, 0, k)
	for _, hit := range ranked {
		if filter != nil && filter.Category != "" && hit.Entry.Category != filter.Category {
			continue
		}
		hits = append(hits, hit)
		if len(hits) == k {
			break
		}
	}

	return hits, nil
}

// Count returns the number of entries in the index.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Save persists the index: vectors to the binary file (written to a
// temp file and renamed), metadata snapshots to bbolt.
func (idx *Index) Save() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if err := idx.saveLocked(); err != nil {
		return err
	}
	idx.dirty = false
	return nil
}

// Close saves pending changes and releases the metadata database.
func (idx *Index) Close() error {
	idx.mu.Lock()
	if idx.dirty {
		if err := idx.saveLocked(); err != nil {
			idx.mu.Unlock()
			idx.db.Close()
			return err
		}
		idx.dirty = false
	}
	idx.mu.Unlock()

	return idx.db.Close()
}

// Dimension returns the vector dimensionality the index was opened with.
func (idx *Index) Dimension() int {
	return idx.dimension
}

// cosine computes cosine similarity between two vectors of equal length.
func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
