package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestDocument_Fields tests Document structure fields
func TestDocument_Fields(t *testing.T) {
	now := time.Now().UTC()
	doc := Document{
		ID:        "7f1d2c3e-0000-4000-8000-000000000001",
		Filename:  "report.pdf",
		Content:   "Quarterly numbers",
		Strategy:  StrategyFixed,
		Length:    17,
		CreatedAt: now,
	}

	assert.Equal(t, "report.pdf", doc.Filename)
	assert.Equal(t, StrategyFixed, doc.Strategy)
	assert.Equal(t, 17, doc.Length)
	assert.Equal(t, now, doc.CreatedAt)
}

// TestChunkID tests chunk identifier construction
func TestChunkID(t *testing.T) {
	assert.Equal(t, "doc-1_0", ChunkID("doc-1", 0))
	assert.Equal(t, "doc-1_12", ChunkID("doc-1", 12))
}

// TestCharCount tests that lengths are measured in characters
func TestCharCount(t *testing.T) {
	assert.Equal(t, 0, CharCount(""))
	assert.Equal(t, 5, CharCount("hello"))
	assert.Equal(t, 5, CharCount("héllo"))
	assert.Equal(t, 2, CharCount("日本"))
}

func TestTruncateChars(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{"shorter than limit", "abc", 5, "abc"},
		{"exact limit", "abcde", 5, "abcde"},
		{"longer than limit", "abcdef", 5, "abcde"},
		{"multibyte", "日本語テキスト", 3, "日本語"},
		{"zero limit", "abc", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateChars(tt.input, tt.limit))
		})
	}
}

// TestNewVectorEntry tests vector entry metadata construction
func TestNewVectorEntry(t *testing.T) {
	doc := &Document{ID: "doc-1", Filename: "notes.txt", Strategy: StrategyRecursive}
	chunk := Chunk{ID: ChunkID("doc-1", 3), DocumentID: "doc-1", Index: 3, Content: strings.Repeat("x", 800)}

	entry := NewVectorEntry(doc, chunk, []float32{0.1, 0.2})

	assert.Equal(t, "doc-1_3", entry.ID)
	assert.Equal(t, []float32{0.1, 0.2}, entry.Values)
	assert.Equal(t, "doc-1", entry.Metadata.DocumentID)
	assert.Equal(t, "notes.txt", entry.Metadata.Filename)
	assert.Equal(t, 3, entry.Metadata.ChunkIndex)
	assert.Equal(t, "recursive", entry.Metadata.Strategy)
	assert.Len(t, entry.Metadata.Text, MaxVectorMetadataText)
}

func TestVectorMetadata_AsMap(t *testing.T) {
	m := VectorMetadata{DocumentID: "d", Filename: "f.txt", ChunkIndex: 2, Text: "t", Strategy: "fixed"}

	got := m.AsMap()

	assert.Equal(t, "d", got["document_id"])
	assert.Equal(t, "f.txt", got["filename"])
	assert.Equal(t, 2, got["chunk_index"])
	assert.Equal(t, "t", got["text"])
	assert.Equal(t, "fixed", got["chunk_strategy"])
}
