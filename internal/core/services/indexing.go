package services

import (
	"context"
	"time"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
)

// VectorBatchSize is the number of entries sent to a vector index per request.
const VectorBatchSize = 100

// DefaultCallTimeout bounds each call to an external collaborator.
const DefaultCallTimeout = 60 * time.Second

// batches splits items into consecutive slices of at most size elements.
func batches[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = len(items)
	}
	var out [][]T
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}

// caller runs external calls under a per-call deadline.
type caller struct {
	timeout time.Duration
}

func newCaller(timeout time.Duration) caller {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return caller{timeout: timeout}
}

// call runs fn with a context that expires after the configured timeout.
func (c caller) call(ctx context.Context, fn func(ctx context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return fn(callCtx)
}

// upsertVectors sends entries to the index in sequential batches.
// It stops at the first failing batch and returns how many entries were accepted.
func (c caller) upsertVectors(
	ctx context.Context,
	index driven.VectorIndex,
	entries []domain.VectorEntry,
) (int, error) {
	upserted := 0
	for _, batch := range batches(entries, VectorBatchSize) {
		err := c.call(ctx, func(ctx context.Context) error {
			return index.Upsert(ctx, batch)
		})
		if err != nil {
			return upserted, err
		}
		upserted += len(batch)
	}
	return upserted, nil
}

// vectorEntries builds one entry per chunk from the chunk's stored embedding.
func vectorEntries(doc *domain.Document, chunks []domain.Chunk) []domain.VectorEntry {
	entries := make([]domain.VectorEntry, 0, len(chunks))
	for _, chunk := range chunks {
		entries = append(entries, domain.NewVectorEntry(doc, chunk, chunk.Embedding))
	}
	return entries
}
