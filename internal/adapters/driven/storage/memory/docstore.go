package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]storedDocument
	chunks    map[string][]domain.Chunk
	chunkIDs  map[string]struct{}
	seq       int
}

// storedDocument keeps insertion order to break created_at ties.
type storedDocument struct {
	doc domain.Document
	seq int
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]storedDocument),
		chunks:    make(map[string][]domain.Chunk),
		chunkIDs:  make(map[string]struct{}),
	}
}

// CreateDocument stores a new document, assigning an ID and creation time
// when they are not set.
func (s *DocumentStore) CreateDocument(_ context.Context, doc *domain.Document) (string, error) {
	if doc == nil {
		return "", domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if _, exists := s.documents[doc.ID]; exists {
		return "", fmt.Errorf("saving document: duplicate id %s", doc.ID)
	}

	s.seq++
	s.documents[doc.ID] = storedDocument{doc: *doc, seq: s.seq}
	return doc.ID, nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc := stored.doc
	return &doc, nil
}

// ListDocuments returns up to limit documents, newest first, without content.
func (s *DocumentStore) ListDocuments(_ context.Context, limit int) ([]domain.Document, error) {
	s.mu.RLock()
	stored := make([]storedDocument, 0, len(s.documents))
	for _, d := range s.documents {
		stored = append(stored, d)
	}
	s.mu.RUnlock()

	sort.Slice(stored, func(i, j int) bool {
		a, b := stored[i], stored[j]
		if !a.doc.CreatedAt.Equal(b.doc.CreatedAt) {
			return a.doc.CreatedAt.After(b.doc.CreatedAt)
		}
		return a.seq > b.seq
	})

	if limit >= 0 && len(stored) > limit {
		stored = stored[:limit]
	}
	docs := make([]domain.Document, len(stored))
	for i, d := range stored {
		docs[i] = d.doc
		docs[i].Content = ""
	}
	return docs, nil
}

// DeleteDocument removes a document. Its chunks are left to DeleteChunks.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	return nil
}

// InsertChunks stores chunks atomically. A duplicate chunk ID rejects the batch.
func (s *DocumentStore) InsertChunks(_ context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(chunks))
	for _, c := range chunks {
		if _, dup := s.chunkIDs[c.ID]; dup {
			return fmt.Errorf("saving chunk %s: duplicate id", c.ID)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("saving chunk %s: duplicate id", c.ID)
		}
		seen[c.ID] = struct{}{}
	}

	for _, c := range chunks {
		c.Embedding = slices.Clone(c.Embedding)
		s.chunks[c.DocumentID] = append(s.chunks[c.DocumentID], c)
		s.chunkIDs[c.ID] = struct{}{}
	}
	return nil
}

// GetChunks retrieves all chunks for a document ordered by index.
func (s *DocumentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	chunks := slices.Clone(s.chunks[documentID])
	s.mu.RUnlock()

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].Index < chunks[j].Index
	})
	return chunks, nil
}

// DeleteChunks removes all chunks for a document.
func (s *DocumentStore) DeleteChunks(_ context.Context, documentID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chunks := s.chunks[documentID]
	for _, c := range chunks {
		delete(s.chunkIDs, c.ID)
	}
	delete(s.chunks, documentID)
	return len(chunks), nil
}

// Close is a no-op.
func (s *DocumentStore) Close() error {
	return nil
}
