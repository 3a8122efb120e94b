package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidID indicates a malformed document identifier.
	ErrInvalidID = fmt.Errorf("%w: malformed document id", ErrInvalidInput)

	// Extraction Errors.

	// ErrUnsupportedFormat indicates a file extension with no extractor.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrEmptyInput indicates empty or whitespace-only content.
	ErrEmptyInput = errors.New("empty input")

	// ErrNoExtractableText indicates a PDF whose pages yielded no text.
	ErrNoExtractableText = errors.New("no extractable text")

	// ErrDecode indicates content that could not be decoded.
	ErrDecode = errors.New("decode error")

	// Chunking Errors.

	// ErrInvalidStrategy indicates an unknown chunking strategy.
	ErrInvalidStrategy = errors.New("invalid chunk strategy")

	// ErrNoValidChunks indicates chunking produced only blank chunks.
	ErrNoValidChunks = errors.New("no valid chunks")

	// ErrChunking wraps any chunker failure raised after the document was stored.
	ErrChunking = errors.New("chunking failed")

	// External Collaborator Errors.

	// ErrPersistence indicates the document store rejected an operation.
	ErrPersistence = errors.New("persistence failure")

	// ErrEmbedding indicates the embedding provider failed.
	// Embedding is all-or-nothing; no partial results are used.
	ErrEmbedding = errors.New("embedding failure")

	// ErrVectorIndex indicates a vector index operation failed.
	// It never fails an ingestion or deletion.
	ErrVectorIndex = errors.New("vector index failure")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)

// clientErrors are failures caused by the request itself.
var clientErrors = []error{
	ErrInvalidInput,
	ErrUnsupportedFormat,
	ErrEmptyInput,
	ErrNoExtractableText,
	ErrDecode,
	ErrInvalidStrategy,
	ErrNoValidChunks,
	ErrChunking,
}

// IsClientError reports whether err was caused by the caller's input
// (validation, extraction or chunking) rather than by infrastructure.
func IsClientError(err error) bool {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
