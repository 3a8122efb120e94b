package driven

import "github.com/custodia-labs/sercha-ingest/internal/core/domain"

// Chunker splits text into ordered chunks.
// Implementations are pure and deterministic.
type Chunker interface {
	// Split returns the non-empty chunks of text for the given strategy.
	Split(text string, strategy domain.ChunkStrategy) ([]string, error)
}
