package extractors

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.TextExtractor = (*Registry)(nil)

// Registry dispatches files to extractors by lower-cased extension.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string]driven.Extractor
}

// NewRegistry creates a registry holding the given extractors.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{extractors: make(map[string]driven.Extractor)}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// Register adds an extractor for each of its extensions.
// A later registration replaces an earlier one for the same extension.
func (r *Registry) Register(e driven.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range e.Extensions() {
		r.extractors[strings.ToLower(ext)] = e
	}
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.extractors))
	for ext := range r.extractors {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Supported reports whether filename has a registered extension.
func (r *Registry) Supported(filename string) bool {
	_, ok := r.lookup(filename)
	return ok
}

// Extract runs the extractor registered for the file's extension.
func (r *Registry) Extract(ctx context.Context, file *domain.UploadedFile) (string, error) {
	if file == nil {
		return "", domain.ErrInvalidInput
	}
	e, ok := r.lookup(file.Name)
	if !ok {
		return "", fmt.Errorf("%w: %q (supported: %s)",
			domain.ErrUnsupportedFormat, file.Name, strings.Join(r.Extensions(), ", "))
	}
	if len(file.Content) == 0 {
		return "", fmt.Errorf("%w: %s is empty", domain.ErrEmptyInput, file.Name)
	}
	return e.Extract(ctx, file)
}

func (r *Registry) lookup(filename string) (driven.Extractor, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.extractors[ext]
	return e, ok
}
