package driven

import (
	"context"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

// DocumentStore persists documents and chunks.
// It is the authoritative store; missing entities return domain.ErrNotFound.
type DocumentStore interface {
	// CreateDocument stores a new document and returns its assigned ID.
	CreateDocument(ctx context.Context, doc *domain.Document) (string, error)

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns up to limit documents, newest first.
	// Content is not populated.
	ListDocuments(ctx context.Context, limit int) ([]domain.Document, error)

	// DeleteDocument removes a document. Chunks are not cascaded.
	DeleteDocument(ctx context.Context, id string) error

	// InsertChunks stores chunks atomically.
	InsertChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetChunks retrieves all chunks for a document ordered by index.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// DeleteChunks removes all chunks for a document and returns how many were removed.
	DeleteChunks(ctx context.Context, documentID string) (int, error)
}
