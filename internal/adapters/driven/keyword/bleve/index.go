// Package bleve provides a keyword index adapter backed by Bleve.
// Chunk text is mirrored into a local full-text index for external tooling.
package bleve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blevesearch/bleve/v2"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.KeywordIndex = (*Index)(nil)

// batchSize is the number of chunks submitted per Bleve batch.
const batchSize = 100

// chunkDocument is the indexed representation of a chunk.
type chunkDocument struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	ChunkIndex int    `json:"chunk_index"`
	Text       string `json:"text"`
	Strategy   string `json:"chunk_strategy"`
}

// Index is a Bleve-backed keyword index.
type Index struct {
	index bleve.Index
}

// Open opens the index at path, creating it with the default mapping if missing.
func Open(path string) (*Index, error) {
	if path == "" {
		return nil, errors.New("bleve: index path is required")
	}

	if _, err := os.Stat(path); err == nil {
		index, err := bleve.Open(path)
		if err != nil {
			return nil, fmt.Errorf("bleve: open index %s: %w", path, err)
		}
		return &Index{index: index}, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("bleve: stat index %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("bleve: create index directory: %w", err)
	}
	index, err := bleve.New(path, bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("bleve: create index %s: %w", path, err)
	}
	return &Index{index: index}, nil
}

// NewMemOnly creates an in-memory index.
func NewMemOnly() (*Index, error) {
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("bleve: create memory index: %w", err)
	}
	return &Index{index: index}, nil
}

// Index adds or replaces the chunks of doc, submitting batches of 100.
func (i *Index) Index(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	batch := i.index.NewBatch()
	for n, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		data := chunkDocument{
			DocumentID: doc.ID,
			Filename:   doc.Filename,
			ChunkIndex: chunk.Index,
			Text:       chunk.Content,
			Strategy:   doc.Strategy.String(),
		}
		if err := batch.Index(chunk.ID, data); err != nil {
			return fmt.Errorf("bleve: add chunk %s to batch: %w", chunk.ID, err)
		}

		if (n+1)%batchSize == 0 {
			if err := i.index.Batch(batch); err != nil {
				return fmt.Errorf("bleve: index batch: %w", err)
			}
			batch = i.index.NewBatch()
		}
	}

	// Submit remaining
	if batch.Size() > 0 {
		if err := i.index.Batch(batch); err != nil {
			return fmt.Errorf("bleve: index final batch: %w", err)
		}
	}
	return nil
}

// Delete removes chunks by ID. Unknown IDs are ignored.
func (i *Index) Delete(ctx context.Context, chunkIDs []string) error {
	if len(chunkIDs) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	batch := i.index.NewBatch()
	for _, id := range chunkIDs {
		batch.Delete(id)
	}
	if err := i.index.Batch(batch); err != nil {
		return fmt.Errorf("bleve: delete batch: %w", err)
	}
	return nil
}

// DocCount returns the number of indexed chunks.
func (i *Index) DocCount() (uint64, error) {
	return i.index.DocCount()
}

// Close releases the index.
func (i *Index) Close() error {
	return i.index.Close()
}
