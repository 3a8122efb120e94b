package api

import (
	"context"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	result   *domain.IngestResult
	err      error
	backend  string
	file     domain.UploadedFile
	strategy domain.ChunkStrategy
	calls    int
}

func (m *mockIngestService) Ingest(
	_ context.Context,
	file domain.UploadedFile,
	strategy domain.ChunkStrategy,
) (*domain.IngestResult, error) {
	m.calls++
	m.file = file
	m.strategy = strategy
	return m.result, m.err
}

func (m *mockIngestService) VectorBackend() string {
	return m.backend
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	chunks    []domain.Chunk
	deleted   *domain.DeleteResult
	reindexed *domain.ReindexResult
	err       error
	limit     int
	id        string
}

func (m *mockDocumentService) ListDocuments(_ context.Context, limit int) ([]domain.Document, error) {
	m.limit = limit
	return m.documents, m.err
}

func (m *mockDocumentService) GetChunks(_ context.Context, id string) ([]domain.Chunk, error) {
	m.id = id
	return m.chunks, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, id string) (*domain.DeleteResult, error) {
	m.id = id
	return m.deleted, m.err
}

func (m *mockDocumentService) Reindex(_ context.Context, id string) (*domain.ReindexResult, error) {
	m.id = id
	return m.reindexed, m.err
}
