package flat

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/blugen-labs/lexrag/internal/core/domain"
)

// On-disk layout. vectors.bin carries the header and the raw vectors;
// entries.db carries the denormalised metadata snapshot per entry.
//
// vectors.bin (v1, little endian):
//
//	0..7   magic "LXVEC001"
//	8..11  dimension (uint32)
//	12     metric (byte)
//	13..16 entry count (uint32)
//	then per entry: id length (uint16), id bytes, dimension float32s
const (
	vectorsFile = "vectors.bin"
	entriesFile = "entries.db"
)

var (
	fileMagic     = [8]byte{'L', 'X', 'V', 'E', 'C', '0', '0', '1'}
	entriesBucket = []byte("entries")
)

// entryMeta is the JSON metadata snapshot stored per entry in bbolt.
// The vector itself lives in vectors.bin.
type entryMeta struct {
	DocumentID string `json:"document_id"`
	Ordinal    int    `json:"ordinal"`
	Category   string `json:"category"`
	Filename   string `json:"filename"`
	Folder     string `json:"folder"`
	Snippet    string `json:"snippet"`
}

// openEntriesDB opens the bbolt metadata database, creating the
// directory and bucket as needed.
func openEntriesDB(dir string) (*bolt.DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := bolt.Open(filepath.Join(dir, entriesFile), 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening entries database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(entriesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating entries bucket: %w", err)
	}

	return db, nil
}

// load reads the persisted index into a fresh map. A missing vectors
// file means a new index. Any disagreement between the stored header
// and the configured dimension, or between vectors and metadata, is
// domain.ErrCorruptIndex.
func (idx *Index) load() (map[string]domain.IndexEntry, error) {
	path := filepath.Join(idx.dir, vectorsFile)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return make(map[string]domain.IndexEntry), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening vectors file: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var magic [8]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: short header in %s", domain.ErrCorruptIndex, path)
	}
	if magic != fileMagic {
		return nil, fmt.Errorf("%w: bad magic in %s", domain.ErrCorruptIndex, path)
	}

	var dim uint32
	if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
		return nil, fmt.Errorf("%w: unreadable dimension in %s", domain.ErrCorruptIndex, path)
	}
	if int(dim) != idx.dimension {
		return nil, fmt.Errorf("%w: stored dimensionality %d, embedder produces %d",
			domain.ErrCorruptIndex, dim, idx.dimension)
	}

	metric, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable metric in %s", domain.ErrCorruptIndex, path)
	}
	if Metric(metric) != idx.metric {
		return nil, fmt.Errorf("%w: stored metric %d, index configured for %d",
			domain.ErrCorruptIndex, metric, idx.metric)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: unreadable entry count in %s", domain.ErrCorruptIndex, path)
	}

	entries := make(map[string]domain.IndexEntry, count)
	for i := uint32(0); i < count; i++ {
		var idLen uint16
		if err := binary.Read(r, binary.LittleEndian, &idLen); err != nil {
			return nil, fmt.Errorf("%w: truncated entry %d", domain.ErrCorruptIndex, i)
		}
		id := make([]byte, idLen)
		if _, err := io.ReadFull(r, id); err != nil {
			return nil, fmt.Errorf("%w: truncated entry %d", domain.ErrCorruptIndex, i)
		}
		vector := make([]float32, dim)
		if err := binary.Read(r, binary.LittleEndian, vector); err != nil {
			return nil, fmt.Errorf("%w: truncated vector for entry %s", domain.ErrCorruptIndex, id)
		}

		meta, err := idx.loadMeta(string(id))
		if err != nil {
			return nil, err
		}

		entries[string(id)] = domain.IndexEntry{
			ChunkID:    string(id),
			DocumentID: meta.DocumentID,
			Ordinal:    meta.Ordinal,
			Vector:     vector,
			Category:   meta.Category,
			Filename:   meta.Filename,
			Folder:     meta.Folder,
			Snippet:    meta.Snippet,
		}
	}

	return entries, nil
}

// loadMeta fetches one entry's metadata snapshot from bbolt.
func (idx *Index) loadMeta(chunkID string) (*entryMeta, error) {
	var meta entryMeta
	err := idx.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(entriesBucket).Get([]byte(chunkID))
		if raw == nil {
			return fmt.Errorf("%w: no metadata for entry %s", domain.ErrCorruptIndex, chunkID)
		}
		return json.Unmarshal(raw, &meta)
	})
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

// saveLocked writes vectors.bin atomically and rewrites the metadata
// bucket. Callers hold the write lock.
func (idx *Index) saveLocked() error {
	path := filepath.Join(idx.dir, vectorsFile)
	tmp := path + ".tmp"

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating temp vectors file: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := idx.writeVectors(w); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("flushing vectors file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing vectors file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing vectors file: %w", err)
	}

	return idx.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(entriesBucket); err != nil {
			return err
		}
		b, err := tx.CreateBucket(entriesBucket)
		if err != nil {
			return err
		}
		for id, e := range idx.entries {
			raw, err := json.Marshal(entryMeta{
				DocumentID: e.DocumentID,
				Ordinal:    e.Ordinal,
				Category:   e.Category,
				Filename:   e.Filename,
				Folder:     e.Folder,
				Snippet:    e.Snippet,
			})
			if err != nil {
				return err
			}
			if err := b.Put([]byte(id), raw); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeVectors streams the header and vectors to w.
func (idx *Index) writeVectors(w io.Writer) error {
	if _, err := w.Write(fileMagic[:]); err != nil {
		return fmt.Errorf("writing magic: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(idx.dimension)); err != nil {
		return fmt.Errorf("writing dimension: %w", err)
	}
	if _, err := w.Write([]byte{byte(idx.metric)}); err != nil {
		return fmt.Errorf("writing metric: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(idx.entries))); err != nil {
		return fmt.Errorf("writing count: %w", err)
	}

	for id, e := range idx.entries {
		if err := binary.Write(w, binary.LittleEndian, uint16(len(id))); err != nil {
			return fmt.Errorf("writing id length: %w", err)
		}
		if _, err := io.WriteString(w, id); err != nil {
			return fmt.Errorf("writing id: %w", err)
		}
		if err := binary.Write(w, binary.LittleEndian, e.Vector); err != nil {
			return fmt.Errorf("writing vector: %w", err)
		}
	}

	return nil
}
