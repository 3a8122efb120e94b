package driven

import (
	"context"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

// KeywordIndex mirrors chunk text into a full-text index.
// Backed by Bleve. Like VectorIndex it is best-effort.
type KeywordIndex interface {
	// Index adds or replaces the chunks of a document.
	Index(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error

	// Delete removes chunks by ID.
	Delete(ctx context.Context, chunkIDs []string) error

	// Close releases resources.
	Close() error
}
