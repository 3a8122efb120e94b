package cli

import (
	"context"
	"time"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	result   *domain.IngestResult
	err      error
	file     domain.UploadedFile
	strategy domain.ChunkStrategy
}

func (m *mockIngestService) Ingest(
	_ context.Context,
	file domain.UploadedFile,
	strategy domain.ChunkStrategy,
) (*domain.IngestResult, error) {
	m.file = file
	m.strategy = strategy
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockIngestService) VectorBackend() string { return "" }

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	chunks    []domain.Chunk
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
	if m.err != nil {
		return nil, m.err
	}
	return &domain.DeleteResult{DocumentID: id, ChunksDeleted: len(m.chunks), VectorsDeleted: len(m.chunks)}, nil
}

func (m *mockDocumentService) Reindex(_ context.Context, id string) (*domain.ReindexResult, error) {
	m.id = id
	if m.err != nil {
		return nil, m.err
	}
	return &domain.ReindexResult{DocumentID: id, VectorsUpserted: len(m.chunks)}, nil
}

var (
	testIngest    *mockIngestService
	testDocuments *mockDocumentService
)

// setupTestServices installs mock services and returns a cleanup function.
func setupTestServices() func() {
	testIngest = &mockIngestService{result: &domain.IngestResult{
		DocumentID:   "doc-1",
		Filename:     "notes.txt",
		NumChunks:    2,
		Strategy:     domain.StrategyRecursive,
		TextLength:   1500,
		AvgChunkSize: 750,
	}}
	testDocuments = &mockDocumentService{
		documents: []domain.Document{{
			ID:        "doc-1",
			Filename:  "notes.txt",
			Strategy:  domain.StrategyRecursive,
			Length:    1500,
			CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		}},
		chunks: []domain.Chunk{
			{ID: "doc-1_0", DocumentID: "doc-1", Index: 0, Content: "First chunk.", Length: 12},
			{ID: "doc-1_1", DocumentID: "doc-1", Index: 1, Content: "Second chunk.", Length: 13},
		},
	}

	originalIngest, originalDocuments := ingestService, documentService
	ingestService = testIngest
	documentService = testDocuments

	return func() {
		ingestService = originalIngest
		documentService = originalDocuments
	}
}
