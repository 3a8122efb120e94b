package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-ingest/internal/chunker"
	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/extractors"
)

type ingestFixture struct {
	extractor *stubExtractor
	embedder  *stubEmbedder
	store     *faultyStore
	vector    *recordingVectorIndex
	keyword   *recordingKeywordIndex
	svc       *IngestService
}

func newIngestFixture(text string) *ingestFixture {
	f := &ingestFixture{
		extractor: &stubExtractor{text: text},
		embedder:  &stubEmbedder{},
		store:     newFaultyStore(),
		vector:    &recordingVectorIndex{},
		keyword:   &recordingKeywordIndex{},
	}
	f.svc = NewIngestService(f.extractor, chunker.New(), f.embedder, f.store, f.vector, f.keyword, 0)
	return f
}

func (f *ingestFixture) documentCount(t *testing.T) int {
	t.Helper()
	docs, err := f.store.ListDocuments(context.Background(), 100)
	require.NoError(t, err)
	return len(docs)
}

func upload(name string) domain.UploadedFile {
	return domain.UploadedFile{Name: name, Content: []byte("ignored")}
}

func TestIngest_FixedStrategy(t *testing.T) {
	f := newIngestFixture(strings.Repeat("a", 2500))

	result, err := f.svc.Ingest(context.Background(), upload("a.txt"), domain.StrategyFixed)
	require.NoError(t, err)

	assert.NotEmpty(t, result.DocumentID)
	assert.Equal(t, "a.txt", result.Filename)
	assert.Equal(t, 3, result.NumChunks)
	assert.Equal(t, domain.StrategyFixed, result.Strategy)
	assert.Equal(t, 2500, result.TextLength)
	assert.Equal(t, 833, result.AvgChunkSize)
	assert.True(t, result.VectorIndexUploaded)
	assert.Equal(t, "recording", result.VectorBackend)
	assert.True(t, result.KeywordIndexed)

	chunks, err := f.store.GetChunks(context.Background(), result.DocumentID)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, fmt.Sprintf("%s_%d", result.DocumentID, i), c.ID)
		assert.Equal(t, []float32{float32(i), 1, 0}, c.Embedding)
	}
	assert.Equal(t, []int{1000, 1000, 500}, []int{chunks[0].Length, chunks[1].Length, chunks[2].Length})

	doc, err := f.store.GetDocument(context.Background(), result.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, domain.StrategyFixed, doc.Strategy)
	assert.Equal(t, 2500, doc.Length)
}

func TestIngest_ShortTextSingleChunk(t *testing.T) {
	f := newIngestFixture("Hello world")

	result, err := f.svc.Ingest(context.Background(), upload("hello.txt"), domain.StrategyRecursive)
	require.NoError(t, err)
	assert.Equal(t, 1, result.NumChunks)
	assert.Equal(t, 11, result.AvgChunkSize)
	assert.Equal(t, []string{"Hello world"}, f.embedder.texts)
}

func TestIngest_VectorEntries(t *testing.T) {
	f := newIngestFixture(strings.Repeat("b", 1200))

	result, err := f.svc.Ingest(context.Background(), upload("b.txt"), domain.StrategyFixed)
	require.NoError(t, err)

	require.Len(t, f.vector.upserts, 1)
	entries := f.vector.upserts[0]
	require.Len(t, entries, 2)
	assert.True(t, f.vector.hadTimeout)

	first := entries[0]
	assert.Equal(t, domain.ChunkID(result.DocumentID, 0), first.ID)
	assert.Equal(t, result.DocumentID, first.Metadata.DocumentID)
	assert.Equal(t, "b.txt", first.Metadata.Filename)
	assert.Equal(t, 0, first.Metadata.ChunkIndex)
	assert.Equal(t, "fixed", first.Metadata.Strategy)
	assert.Len(t, first.Metadata.Text, domain.MaxVectorMetadataText)
	assert.Len(t, entries[1].Metadata.Text, 200)
}

func TestIngest_VectorBatches(t *testing.T) {
	f := newIngestFixture("")
	pieces := make([]string, 250)
	for i := range pieces {
		pieces[i] = fmt.Sprintf("chunk %d", i)
	}
	f.svc.chunker = &stubChunker{pieces: pieces}
	f.extractor.text = "anything"

	result, err := f.svc.Ingest(context.Background(), upload("many.txt"), domain.StrategyRecursive)
	require.NoError(t, err)
	assert.Equal(t, 250, result.NumChunks)
	assert.True(t, result.VectorIndexUploaded)

	require.Len(t, f.vector.upserts, 3)
	assert.Len(t, f.vector.upserts[0], 100)
	assert.Len(t, f.vector.upserts[1], 100)
	assert.Len(t, f.vector.upserts[2], 50)
	assert.Equal(t, domain.ChunkID(result.DocumentID, 249), f.vector.upserts[2][49].ID)
}

func TestIngest_VectorFailureIsNotFatal(t *testing.T) {
	f := newIngestFixture(strings.Repeat("c", 300))
	f.vector.upsertErr = errBoom

	result, err := f.svc.Ingest(context.Background(), upload("c.txt"), domain.StrategyRecursive)
	require.NoError(t, err)
	assert.False(t, result.VectorIndexUploaded)
	assert.Equal(t, "recording", result.VectorBackend)

	chunks, err := f.store.GetChunks(context.Background(), result.DocumentID)
	require.NoError(t, err)
	assert.Len(t, chunks, 1)
}

func TestIngest_VectorFailureStopsBatches(t *testing.T) {
	f := newIngestFixture("text")
	pieces := make([]string, 250)
	for i := range pieces {
		pieces[i] = "p"
	}
	f.svc.chunker = &stubChunker{pieces: pieces}
	f.vector.upsertErr = errBoom
	f.vector.failBatch = 2

	result, err := f.svc.Ingest(context.Background(), upload("p.txt"), domain.StrategyRecursive)
	require.NoError(t, err)
	assert.False(t, result.VectorIndexUploaded)
	assert.Len(t, f.vector.upserts, 2)
}

func TestIngest_KeywordFailureIsNotFatal(t *testing.T) {
	f := newIngestFixture("some text")
	f.keyword.err = errBoom

	result, err := f.svc.Ingest(context.Background(), upload("k.txt"), domain.StrategyRecursive)
	require.NoError(t, err)
	assert.False(t, result.KeywordIndexed)
	assert.True(t, result.VectorIndexUploaded)
}

func TestIngest_IndexesDisabled(t *testing.T) {
	f := newIngestFixture("some text")
	f.svc = NewIngestService(f.extractor, chunker.New(), f.embedder, f.store, nil, nil, 0)

	result, err := f.svc.Ingest(context.Background(), upload("k.txt"), domain.StrategyRecursive)
	require.NoError(t, err)
	assert.False(t, result.VectorIndexUploaded)
	assert.False(t, result.KeywordIndexed)
	assert.Empty(t, result.VectorBackend)
	assert.Empty(t, f.svc.VectorBackend())
}

func TestIngest_Validation(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		strategy domain.ChunkStrategy
		want     error
	}{
		{"empty filename", "", domain.StrategyRecursive, domain.ErrInvalidInput},
		{"blank filename", "   ", domain.StrategyRecursive, domain.ErrInvalidInput},
		{"zero strategy", "a.txt", domain.ChunkStrategy(0), domain.ErrInvalidStrategy},
		{"unknown strategy", "a.txt", domain.ChunkStrategy(9), domain.ErrInvalidStrategy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newIngestFixture("text")
			_, err := f.svc.Ingest(context.Background(), upload(tt.filename), tt.strategy)
			require.ErrorIs(t, err, tt.want)
			assert.True(t, domain.IsClientError(err))
			assert.Zero(t, f.extractor.calls)
			assert.Zero(t, f.documentCount(t))
		})
	}
}

func TestIngest_NoEmbedder(t *testing.T) {
	f := newIngestFixture("text")
	f.svc = NewIngestService(f.extractor, chunker.New(), nil, f.store, nil, nil, 0)

	_, err := f.svc.Ingest(context.Background(), upload("a.txt"), domain.StrategyRecursive)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.Zero(t, f.documentCount(t))
}

func TestIngest_ExtractionFailure(t *testing.T) {
	f := newIngestFixture("")
	f.extractor.err = domain.ErrNoExtractableText

	_, err := f.svc.Ingest(context.Background(), upload("scan.pdf"), domain.StrategyRecursive)
	require.ErrorIs(t, err, domain.ErrNoExtractableText)
	assert.True(t, domain.IsClientError(err))
	assert.Zero(t, f.documentCount(t))
	assert.Zero(t, f.embedder.calls)
}

func TestIngest_UnsupportedFormat(t *testing.T) {
	f := newIngestFixture("")
	f.svc.extractor = extractors.NewDefaultRegistry()

	_, err := f.svc.Ingest(context.Background(), upload("notes.docx"), domain.StrategyRecursive)
	require.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Zero(t, f.documentCount(t))
}

func TestIngest_PlainTextEndToEnd(t *testing.T) {
	f := newIngestFixture("")
	f.svc.extractor = extractors.NewDefaultRegistry()

	file := domain.UploadedFile{Name: "notes.TXT", Content: []byte("Alpha beta gamma.")}
	result, err := f.svc.Ingest(context.Background(), file, domain.StrategyRecursive)
	require.NoError(t, err)
	assert.Equal(t, 1, result.NumChunks)
	assert.Equal(t, 17, result.TextLength)
}

func TestIngest_CreateDocumentFailure(t *testing.T) {
	f := newIngestFixture("text")
	f.store.createErr = errBoom

	_, err := f.svc.Ingest(context.Background(), upload("a.txt"), domain.StrategyRecursive)
	require.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, errBoom)
	assert.False(t, domain.IsClientError(err))
	assert.Zero(t, f.embedder.calls)
}

func TestIngest_ChunkingFailureRemovesDocument(t *testing.T) {
	f := newIngestFixture("text")
	f.svc.chunker = &stubChunker{err: domain.ErrNoValidChunks}

	_, err := f.svc.Ingest(context.Background(), upload("a.txt"), domain.StrategyRecursive)
	require.ErrorIs(t, err, domain.ErrChunking)
	assert.ErrorIs(t, err, domain.ErrNoValidChunks)
	assert.True(t, domain.IsClientError(err))
	assert.Len(t, f.store.deletedDocs, 1)
	assert.Empty(t, f.store.deletedChunks)
	assert.Zero(t, f.documentCount(t))
	assert.Zero(t, f.embedder.calls)
}

func TestIngest_EmbeddingFailureRemovesDocument(t *testing.T) {
	f := newIngestFixture("some text to embed")
	f.embedder.err = errBoom

	_, err := f.svc.Ingest(context.Background(), upload("a.txt"), domain.StrategyRecursive)
	require.ErrorIs(t, err, domain.ErrEmbedding)
	assert.ErrorIs(t, err, errBoom)
	assert.False(t, domain.IsClientError(err))
	assert.Zero(t, f.documentCount(t))
	assert.Empty(t, f.vector.upserts)
	assert.Empty(t, f.keyword.indexed)
}

func TestIngest_EmbeddingCountMismatch(t *testing.T) {
	f := newIngestFixture(strings.Repeat("d", 1500))
	f.embedder.drop = 1

	_, err := f.svc.Ingest(context.Background(), upload("d.txt"), domain.StrategyFixed)
	require.ErrorIs(t, err, domain.ErrEmbedding)
	assert.Zero(t, f.documentCount(t))
}

func TestIngest_InsertChunksFailureRemovesEverything(t *testing.T) {
	f := newIngestFixture("text")
	f.store.insertErr = errBoom

	_, err := f.svc.Ingest(context.Background(), upload("a.txt"), domain.StrategyRecursive)
	require.ErrorIs(t, err, domain.ErrPersistence)
	require.Len(t, f.store.deletedDocs, 1)
	assert.Equal(t, f.store.deletedDocs, f.store.deletedChunks)
	assert.Zero(t, f.documentCount(t))
	assert.Empty(t, f.vector.upserts)
}

func TestIngest_CleanupFailureIsJoined(t *testing.T) {
	f := newIngestFixture("text")
	f.embedder.err = errBoom
	cleanupErr := fmt.Errorf("store offline")
	f.store.deleteDocErr = cleanupErr

	_, err := f.svc.Ingest(context.Background(), upload("a.txt"), domain.StrategyRecursive)
	require.ErrorIs(t, err, domain.ErrEmbedding)
	assert.ErrorIs(t, err, cleanupErr)
}

func TestIngest_CleanupRunsAfterCancellation(t *testing.T) {
	f := newIngestFixture("text")
	ctx, cancel := context.WithCancel(context.Background())
	f.svc.chunker = &stubChunker{err: domain.ErrNoValidChunks}
	cancel()

	_, err := f.svc.Ingest(ctx, upload("a.txt"), domain.StrategyRecursive)
	require.ErrorIs(t, err, domain.ErrChunking)
	assert.Zero(t, f.documentCount(t))
}
