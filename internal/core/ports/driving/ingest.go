package driving

import (
	"context"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

// IngestService runs the ingestion pipeline for one file.
type IngestService interface {
	// Ingest extracts, chunks, embeds and stores a file.
	Ingest(ctx context.Context, file domain.UploadedFile, strategy domain.ChunkStrategy) (*domain.IngestResult, error)

	// VectorBackend returns the configured vector index name, empty when disabled.
	VectorBackend() string
}
