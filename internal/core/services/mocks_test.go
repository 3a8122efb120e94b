package services

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/custodia-labs/sercha-ingest/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

var errBoom = errors.New("boom")

// stubExtractor returns fixed text for every file.
type stubExtractor struct {
	text  string
	err   error
	calls int
}

func (e *stubExtractor) Extract(_ context.Context, _ *domain.UploadedFile) (string, error) {
	e.calls++
	return e.text, e.err
}

func (e *stubExtractor) Supported(string) bool { return true }

// stubChunker returns fixed pieces.
type stubChunker struct {
	pieces []string
	err    error
}

func (c *stubChunker) Split(string, domain.ChunkStrategy) ([]string, error) {
	return c.pieces, c.err
}

// stubEmbedder returns a deterministic vector per text.
type stubEmbedder struct {
	err   error
	drop  int // number of vectors to omit from the result
	calls int
	texts []string
}

func (e *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	e.texts = texts
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, 0, len(texts))
	for i := range texts[:len(texts)-e.drop] {
		out = append(out, []float32{float32(i), 1, 0})
	}
	return out, nil
}

func (e *stubEmbedder) Dimensions() int             { return 3 }
func (e *stubEmbedder) ModelName() string           { return "stub" }
func (e *stubEmbedder) Ping(_ context.Context) error { return nil }
func (e *stubEmbedder) Close() error                 { return nil }

// recordingVectorIndex records every batch it receives.
type recordingVectorIndex struct {
	mu         sync.Mutex
	upsertErr  error
	failBatch  int // 1-based batch number that fails; 0 = every batch when upsertErr is set
	deleteErr  error
	upserts    [][]domain.VectorEntry
	deletes    [][]string
	hadTimeout bool
}

func (v *recordingVectorIndex) Backend() string { return "recording" }

func (v *recordingVectorIndex) Upsert(ctx context.Context, entries []domain.VectorEntry) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, v.hadTimeout = ctx.Deadline()
	v.upserts = append(v.upserts, slices.Clone(entries))
	if v.upsertErr != nil && (v.failBatch == 0 || v.failBatch == len(v.upserts)) {
		return v.upsertErr
	}
	return nil
}

func (v *recordingVectorIndex) Delete(_ context.Context, ids []string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.deletes = append(v.deletes, slices.Clone(ids))
	return v.deleteErr
}

func (v *recordingVectorIndex) Close() error { return nil }

// recordingKeywordIndex records indexed and deleted chunk IDs.
type recordingKeywordIndex struct {
	err     error
	indexed []string
	deleted []string
}

func (k *recordingKeywordIndex) Index(_ context.Context, _ *domain.Document, chunks []domain.Chunk) error {
	if k.err != nil {
		return k.err
	}
	for _, c := range chunks {
		k.indexed = append(k.indexed, c.ID)
	}
	return nil
}

func (k *recordingKeywordIndex) Delete(_ context.Context, ids []string) error {
	k.deleted = append(k.deleted, ids...)
	return k.err
}

func (k *recordingKeywordIndex) Close() error { return nil }

// faultyStore wraps the memory store and injects failures.
type faultyStore struct {
	*memory.DocumentStore
	createErr       error
	insertErr       error
	deleteDocErr    error
	deleteChunksErr error
	deletedDocs     []string
	deletedChunks   []string
}

func newFaultyStore() *faultyStore {
	return &faultyStore{DocumentStore: memory.NewDocumentStore()}
}

func (s *faultyStore) CreateDocument(ctx context.Context, doc *domain.Document) (string, error) {
	if s.createErr != nil {
		return "", s.createErr
	}
	return s.DocumentStore.CreateDocument(ctx, doc)
}

func (s *faultyStore) InsertChunks(ctx context.Context, chunks []domain.Chunk) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	return s.DocumentStore.InsertChunks(ctx, chunks)
}

func (s *faultyStore) DeleteDocument(ctx context.Context, id string) error {
	s.deletedDocs = append(s.deletedDocs, id)
	if s.deleteDocErr != nil {
		return s.deleteDocErr
	}
	return s.DocumentStore.DeleteDocument(ctx, id)
}

func (s *faultyStore) DeleteChunks(ctx context.Context, id string) (int, error) {
	s.deletedChunks = append(s.deletedChunks, id)
	if s.deleteChunksErr != nil {
		return 0, s.deleteChunksErr
	}
	return s.DocumentStore.DeleteChunks(ctx, id)
}
