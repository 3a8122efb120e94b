package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-ingest/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs the ingestion pipeline:
// extract, store document, chunk, embed, store chunks, then mirror to the indexes.
type IngestService struct {
	extractor driven.TextExtractor
	chunker   driven.Chunker
	embedder  driven.EmbeddingService
	docStore  driven.DocumentStore
	vector    driven.VectorIndex
	keyword   driven.KeywordIndex
	calls     caller
}

// NewIngestService creates a new ingest service.
// The vector and keyword indexes are optional; pass nil to disable them.
// A callTimeout of zero uses DefaultCallTimeout.
func NewIngestService(
	extractor driven.TextExtractor,
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
	docStore driven.DocumentStore,
	vector driven.VectorIndex,
	keyword driven.KeywordIndex,
	callTimeout time.Duration,
) *IngestService {
	return &IngestService{
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		docStore:  docStore,
		vector:    vector,
		keyword:   keyword,
		calls:     newCaller(callTimeout),
	}
}

// VectorBackend returns the vector index name, or "" when it is disabled.
func (s *IngestService) VectorBackend() string {
	if s.vector == nil {
		return ""
	}
	return s.vector.Backend()
}

// Ingest processes one uploaded file.
//
//nolint:gocyclo // Pipeline orchestration with sequential steps
func (s *IngestService) Ingest(
	ctx context.Context,
	file domain.UploadedFile,
	strategy domain.ChunkStrategy,
) (*domain.IngestResult, error) {
	// 1. VALIDATE
	if strings.TrimSpace(file.Name) == "" {
		return nil, fmt.Errorf("%w: filename is required", domain.ErrInvalidInput)
	}
	if !strategy.Valid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidStrategy, strategy)
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	// 2. EXTRACT
	text, err := s.extractor.Extract(ctx, &file)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", file.Name, err)
	}

	// 3. STORE DOCUMENT
	doc := &domain.Document{
		Filename: file.Name,
		Content:  text,
		Strategy: strategy,
		Length:   domain.CharCount(text),
	}
	err = s.calls.call(ctx, func(ctx context.Context) error {
		id, err := s.docStore.CreateDocument(ctx, doc)
		doc.ID = id
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create document: %w", domain.ErrPersistence, err)
	}
	logger.Debug("Stored document %s (%s, %d chars)", doc.ID, doc.Filename, doc.Length)

	// 4. CHUNK
	pieces, err := s.chunker.Split(text, strategy)
	if err != nil {
		return nil, s.abort(ctx, doc.ID, false, fmt.Errorf("%w: %w", domain.ErrChunking, err))
	}

	// 5. EMBED
	var vectors [][]float32
	err = s.calls.call(ctx, func(ctx context.Context) error {
		var err error
		vectors, err = s.embedder.EmbedBatch(ctx, pieces)
		return err
	})
	if err == nil && len(vectors) != len(pieces) {
		err = fmt.Errorf("got %d embeddings for %d chunks", len(vectors), len(pieces))
	}
	if err != nil {
		return nil, s.abort(ctx, doc.ID, false, fmt.Errorf("%w: %w", domain.ErrEmbedding, err))
	}

	// 6. STORE CHUNKS
	chunks := make([]domain.Chunk, len(pieces))
	total := 0
	for i, piece := range pieces {
		chunks[i] = domain.Chunk{
			ID:         domain.ChunkID(doc.ID, i),
			DocumentID: doc.ID,
			Index:      i,
			Content:    piece,
			Length:     domain.CharCount(piece),
			Embedding:  vectors[i],
		}
		total += chunks[i].Length
	}
	err = s.calls.call(ctx, func(ctx context.Context) error {
		return s.docStore.InsertChunks(ctx, chunks)
	})
	if err != nil {
		return nil, s.abort(ctx, doc.ID, true, fmt.Errorf("%w: insert chunks: %w", domain.ErrPersistence, err))
	}

	result := &domain.IngestResult{
		DocumentID:    doc.ID,
		Filename:      doc.Filename,
		NumChunks:     len(chunks),
		Strategy:      strategy,
		TextLength:    doc.Length,
		AvgChunkSize:  total / len(chunks),
		VectorBackend: s.VectorBackend(),
	}

	// 7. MIRROR TO INDEXES (best-effort)
	if s.vector != nil {
		result.VectorIndexUploaded = s.indexVectors(ctx, doc, chunks)
	}
	if s.keyword != nil {
		result.KeywordIndexed = s.indexKeywords(ctx, doc, chunks)
	}

	logger.Info("Ingested %s as %s: %d chunks (%s), vectors=%t keyword=%t",
		doc.Filename, doc.ID, result.NumChunks, strategy,
		result.VectorIndexUploaded, result.KeywordIndexed)
	return result, nil
}

func (s *IngestService) indexVectors(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) bool {
	n, err := s.calls.upsertVectors(ctx, s.vector, vectorEntries(doc, chunks))
	if err != nil {
		logger.Warn("%v", fmt.Errorf("%w: %s upsert for %s stopped after %d of %d entries: %w",
			domain.ErrVectorIndex, s.vector.Backend(), doc.ID, n, len(chunks), err))
		return false
	}
	return true
}

func (s *IngestService) indexKeywords(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) bool {
	err := s.calls.call(ctx, func(ctx context.Context) error {
		return s.keyword.Index(ctx, doc, chunks)
	})
	if err != nil {
		logger.Warn("Keyword index failed for %s: %v", doc.ID, err)
		return false
	}
	return true
}

// abort removes what an unfinished ingestion stored and returns cause,
// joined with any cleanup failure.
func (s *IngestService) abort(ctx context.Context, docID string, withChunks bool, cause error) error {
	// The request context may already be cancelled; cleanup still has to run.
	ctx = context.WithoutCancel(ctx)

	var errs []error
	if withChunks {
		err := s.calls.call(ctx, func(ctx context.Context) error {
			_, err := s.docStore.DeleteChunks(ctx, docID)
			return err
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("delete chunks of %s: %w", docID, err))
		}
	}
	err := s.calls.call(ctx, func(ctx context.Context) error {
		return s.docStore.DeleteDocument(ctx, docID)
	})
	if err != nil {
		errs = append(errs, fmt.Errorf("delete document %s: %w", docID, err))
	}

	if len(errs) == 0 {
		logger.Debug("Removed partial document %s: %v", docID, cause)
		return cause
	}
	cleanup := errors.Join(errs...)
	logger.Error("Cleanup after failed ingestion of %s: %v", docID, cleanup)
	return errors.Join(cause, cleanup)
}
