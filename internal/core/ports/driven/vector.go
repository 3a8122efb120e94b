package driven

import (
	"context"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

// VectorIndex mirrors chunk embeddings into an external similarity index.
// It is optional and never authoritative.
type VectorIndex interface {
	// Backend returns the provider name (e.g., "pinecone").
	Backend() string

	// Upsert inserts or replaces entries keyed by chunk ID.
	Upsert(ctx context.Context, entries []domain.VectorEntry) error

	// Delete removes entries by chunk ID. Unknown IDs are ignored.
	Delete(ctx context.Context, ids []string) error

	// Close releases resources.
	Close() error
}
