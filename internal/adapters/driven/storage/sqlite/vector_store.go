package sqlite

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
)

// BackendName identifies the local vector index in responses.
const BackendName = "sqlite"

// vectorStore implements driven.VectorIndex on the vectors table.
// It stores entries for later export or inspection; it performs no search.
type vectorStore struct {
	store *Store
}

var _ driven.VectorIndex = (*vectorStore)(nil)

// Backend returns the provider name.
func (s *vectorStore) Backend() string {
	return BackendName
}

// Upsert inserts or replaces entries in one transaction.
func (s *vectorStore) Upsert(ctx context.Context, entries []domain.VectorEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO vectors (id, document_id, filename, chunk_index, text, chunk_strategy, dimensions, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_id = excluded.document_id,
			filename = excluded.filename,
			chunk_index = excluded.chunk_index,
			text = excluded.text,
			chunk_strategy = excluded.chunk_strategy,
			dimensions = excluded.dimensions,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if len(e.Values) == 0 {
			return fmt.Errorf("vector %s has no values", e.ID)
		}
		m := e.Metadata
		if _, err := stmt.ExecContext(ctx, e.ID, m.DocumentID, m.Filename, m.ChunkIndex,
			m.Text, m.Strategy, len(e.Values), float32SliceToBytes(e.Values)); err != nil {
			return fmt.Errorf("saving vector %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Delete removes entries by chunk ID.
func (s *vectorStore) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, "DELETE FROM vectors WHERE id = ?", id); err != nil {
			return fmt.Errorf("deleting vector %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Close is a no-op; the owning Store closes the database.
func (s *vectorStore) Close() error {
	return nil
}
