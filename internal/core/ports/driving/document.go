package driving

import (
	"context"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

// MaxListDocuments caps the number of documents a listing returns.
const MaxListDocuments = 100

// DocumentService manages stored documents.
type DocumentService interface {
	// ListDocuments returns up to limit documents, newest first.
	// A limit outside 1..MaxListDocuments is clamped to MaxListDocuments.
	ListDocuments(ctx context.Context, limit int) ([]domain.Document, error)

	// GetChunks returns a document's chunks ordered by index.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// Delete removes a document, its chunks and its index entries.
	Delete(ctx context.Context, documentID string) (*domain.DeleteResult, error)

	// Reindex rebuilds a document's vector index entries from stored embeddings.
	Reindex(ctx context.Context, documentID string) (*domain.ReindexResult, error)
}
