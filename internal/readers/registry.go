// Package readers provides document readers that extract text and page
// metadata from corpus files, and a registry that selects one by file
// extension.
package readers

import (
	"path/filepath"
	"strings"

	"github.com/blugen-labs/lexrag/internal/core/domain"
	"github.com/blugen-labs/lexrag/internal/core/ports/driven"
)

// Registry maps file extensions to document readers.
type Registry struct {
	byExt map[string]driven.DocumentReader
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]driven.DocumentReader)}
}

// Register adds a reader for every extension it declares.
// A later registration for the same extension wins.
func (r *Registry) Register(reader driven.DocumentReader) {
	for _, ext := range reader.Extensions() {
		r.byExt[strings.ToLower(ext)] = reader
	}
}

// ForPath returns the reader for a file path, or
// domain.ErrUnsupportedType when no reader handles its extension.
func (r *Registry) ForPath(path string) (driven.DocumentReader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	reader, ok := r.byExt[ext]
	if !ok {
		return nil, domain.ErrUnsupportedType
	}
	return reader, nil
}

// Supported reports whether any reader handles the file's extension.
func (r *Registry) Supported(path string) bool {
	_, err := r.ForPath(path)
	return err == nil
}
