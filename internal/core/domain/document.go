package domain

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Document represents an ingested file.
// It is created once extraction succeeds and is immutable afterwards.
type Document struct {
	// ID is the unique identifier assigned by the document store.
	ID string

	// Filename is the name of the uploaded file.
	Filename string

	// Content is the full extracted text.
	// Listings may leave this empty.
	Content string

	// Strategy is the chunking strategy the document was split with.
	Strategy ChunkStrategy

	// Length is the character count of Content.
	Length int

	// CreatedAt is when the document was stored.
	CreatedAt time.Time
}

// Chunk represents a contiguous text segment of a document.
// Chunks are created as a batch per document and never mutated.
type Chunk struct {
	// ID is "{document_id}_{index}".
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Index is the 0-based ordinal position within the document.
	Index int

	// Content is the chunk text.
	Content string

	// Length is the character count of Content.
	Length int

	// Embedding is the vector generated for Content.
	Embedding []float32
}

// UploadedFile is a raw file handed to the ingestion pipeline.
type UploadedFile struct {
	// Name is the client-provided filename; its extension selects the extractor.
	Name string

	// Content is the raw file bytes.
	Content []byte
}

// ChunkID builds the identifier of the chunk at index within a document.
func ChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s_%d", documentID, index)
}

// CharCount returns the number of characters (runes) in s.
func CharCount(s string) int {
	return utf8.RuneCountInString(s)
}

// TruncateChars returns s cut to at most limit characters.
func TruncateChars(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
