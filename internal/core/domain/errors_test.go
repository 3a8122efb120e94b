package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrInvalidID", ErrInvalidID},
		{"ErrUnsupportedFormat", ErrUnsupportedFormat},
		{"ErrEmptyInput", ErrEmptyInput},
		{"ErrNoExtractableText", ErrNoExtractableText},
		{"ErrDecode", ErrDecode},
		{"ErrInvalidStrategy", ErrInvalidStrategy},
		{"ErrNoValidChunks", ErrNoValidChunks},
		{"ErrChunking", ErrChunking},
		{"ErrPersistence", ErrPersistence},
		{"ErrEmbedding", ErrEmbedding},
		{"ErrVectorIndex", ErrVectorIndex},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrVectorIndexUnavailable", ErrVectorIndexUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestErrInvalidID_WrapsInvalidInput tests the id error classification
func TestErrInvalidID_WrapsInvalidInput(t *testing.T) {
	assert.ErrorIs(t, ErrInvalidID, ErrInvalidInput)
	assert.False(t, errors.Is(ErrInvalidInput, ErrInvalidID))
}

func TestIsClientError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"invalid input", ErrInvalidInput, true},
		{"invalid id", ErrInvalidID, true},
		{"wrapped unsupported format", fmt.Errorf("extract: %w", ErrUnsupportedFormat), true},
		{"empty input", ErrEmptyInput, true},
		{"no extractable text", ErrNoExtractableText, true},
		{"decode", ErrDecode, true},
		{"strategy", ErrInvalidStrategy, true},
		{"chunking", fmt.Errorf("%w: %w", ErrChunking, ErrNoValidChunks), true},
		{"not found", ErrNotFound, false},
		{"persistence", ErrPersistence, false},
		{"embedding", ErrEmbedding, false},
		{"joined persistence", errors.Join(ErrEmbedding, ErrPersistence), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsClientError(tt.err))
		})
	}
}
