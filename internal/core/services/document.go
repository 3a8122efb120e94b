package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-ingest/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService lists, inspects and removes stored documents.
type DocumentService struct {
	docStore driven.DocumentStore
	vector   driven.VectorIndex
	keyword  driven.KeywordIndex
	calls    caller
}

// NewDocumentService creates a new document service.
// The vector and keyword indexes are optional.
func NewDocumentService(
	docStore driven.DocumentStore,
	vector driven.VectorIndex,
	keyword driven.KeywordIndex,
	callTimeout time.Duration,
) *DocumentService {
	return &DocumentService{
		docStore: docStore,
		vector:   vector,
		keyword:  keyword,
		calls:    newCaller(callTimeout),
	}
}

// ListDocuments returns the newest documents.
func (s *DocumentService) ListDocuments(ctx context.Context, limit int) ([]domain.Document, error) {
	if limit <= 0 || limit > driving.MaxListDocuments {
		limit = driving.MaxListDocuments
	}
	var docs []domain.Document
	err := s.calls.call(ctx, func(ctx context.Context) error {
		var err error
		docs, err = s.docStore.ListDocuments(ctx, limit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list documents: %w", domain.ErrPersistence, err)
	}
	return docs, nil
}

// GetChunks returns the chunks of a document ordered by index.
func (s *DocumentService) GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	if err := validateID(documentID); err != nil {
		return nil, err
	}
	chunks, err := s.chunks(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("chunks for document %s: %w", documentID, domain.ErrNotFound)
	}
	return chunks, nil
}

// Delete removes a document and everything derived from it.
// Index removals are best-effort; store removals are not.
func (s *DocumentService) Delete(ctx context.Context, documentID string) (*domain.DeleteResult, error) {
	if err := validateID(documentID); err != nil {
		return nil, err
	}
	if _, err := s.document(ctx, documentID); err != nil {
		return nil, err
	}
	chunks, err := s.chunks(ctx, documentID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(chunks))
	for i, chunk := range chunks {
		ids[i] = chunk.ID
	}

	result := &domain.DeleteResult{DocumentID: documentID}

	if s.vector != nil {
		for _, batch := range batches(ids, VectorBatchSize) {
			err := s.calls.call(ctx, func(ctx context.Context) error {
				return s.vector.Delete(ctx, batch)
			})
			if err != nil {
				logger.Warn("%v", fmt.Errorf("%w: delete vectors of %s: %w",
					domain.ErrVectorIndex, documentID, err))
				continue
			}
			result.VectorsDeleted += len(batch)
		}
	}

	if s.keyword != nil && len(ids) > 0 {
		err := s.calls.call(ctx, func(ctx context.Context) error {
			return s.keyword.Delete(ctx, ids)
		})
		if err != nil {
			logger.Warn("Failed to delete keyword entries of %s: %v", documentID, err)
		}
	}

	err = s.calls.call(ctx, func(ctx context.Context) error {
		return s.docStore.DeleteDocument(ctx, documentID)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: delete document %s: %w", domain.ErrPersistence, documentID, err)
	}

	err = s.calls.call(ctx, func(ctx context.Context) error {
		var err error
		result.ChunksDeleted, err = s.docStore.DeleteChunks(ctx, documentID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: delete chunks of %s: %w", domain.ErrPersistence, documentID, err)
	}

	logger.Info("Deleted document %s: %d chunks, %d vectors",
		documentID, result.ChunksDeleted, result.VectorsDeleted)
	return result, nil
}

// Reindex rebuilds the vector index entries of a document from stored embeddings.
func (s *DocumentService) Reindex(ctx context.Context, documentID string) (*domain.ReindexResult, error) {
	if s.vector == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}
	if err := validateID(documentID); err != nil {
		return nil, err
	}
	doc, err := s.document(ctx, documentID)
	if err != nil {
		return nil, err
	}
	chunks, err := s.chunks(ctx, documentID)
	if err != nil {
		return nil, err
	}

	var entries []domain.VectorEntry
	for _, entry := range vectorEntries(doc, chunks) {
		if len(entry.Values) == 0 {
			logger.Debug("Chunk %s has no stored embedding, skipping", entry.ID)
			continue
		}
		entries = append(entries, entry)
	}

	n, err := s.calls.upsertVectors(ctx, s.vector, entries)
	if err != nil {
		return nil, fmt.Errorf("%w: %s upsert for %s: %w", domain.ErrVectorIndex, s.vector.Backend(), documentID, err)
	}

	logger.Info("Reindexed document %s: %d vectors", documentID, n)
	return &domain.ReindexResult{DocumentID: documentID, VectorsUpserted: n}, nil
}

func (s *DocumentService) document(ctx context.Context, id string) (*domain.Document, error) {
	var doc *domain.Document
	err := s.calls.call(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.docStore.GetDocument(ctx, id)
		return err
	})
	if err != nil {
		return nil, storeError("get document", id, err)
	}
	return doc, nil
}

func (s *DocumentService) chunks(ctx context.Context, id string) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	err := s.calls.call(ctx, func(ctx context.Context) error {
		var err error
		chunks, err = s.docStore.GetChunks(ctx, id)
		return err
	})
	if err != nil {
		return nil, storeError("get chunks", id, err)
	}
	return chunks, nil
}

// validateID rejects identifiers that are not UUIDs in the hyphenated
// 8-4-4-4-12 form. uuid.Parse also accepts braced, urn and unhyphenated
// forms, which are never issued as document ids.
func validateID(id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil || !strings.EqualFold(parsed.String(), id) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return nil
}

// storeError keeps ErrNotFound as is and classifies everything else as persistence.
func storeError(op, id string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s %s: %w", op, id, err)
	}
	return fmt.Errorf("%w: %s %s: %w", domain.ErrPersistence, op, id, err)
}
