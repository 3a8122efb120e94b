package domain

// MaxVectorMetadataText is the maximum number of characters of chunk text
// copied into vector index metadata. Index providers cap metadata size.
const MaxVectorMetadataText = 500

// VectorEntry is a chunk embedding as stored in a vector index.
type VectorEntry struct {
	// ID equals the corresponding Chunk ID.
	ID string

	// Values is the embedding vector.
	Values []float32

	// Metadata is the bounded payload stored alongside the vector.
	Metadata VectorMetadata
}

// VectorMetadata is the payload attached to each VectorEntry.
type VectorMetadata struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	ChunkIndex int    `json:"chunk_index"`
	Text       string `json:"text"`
	Strategy   string `json:"chunk_strategy"`
}

// NewVectorEntry builds the index entry for a chunk of doc.
// The chunk text is truncated to MaxVectorMetadataText characters.
func NewVectorEntry(doc *Document, chunk Chunk, values []float32) VectorEntry {
	return VectorEntry{
		ID:     chunk.ID,
		Values: values,
		Metadata: VectorMetadata{
			DocumentID: doc.ID,
			Filename:   doc.Filename,
			ChunkIndex: chunk.Index,
			Text:       TruncateChars(chunk.Content, MaxVectorMetadataText),
			Strategy:   doc.Strategy.String(),
		},
	}
}

// AsMap flattens the metadata for providers that take free-form payloads.
func (m VectorMetadata) AsMap() map[string]any {
	return map[string]any{
		"document_id":    m.DocumentID,
		"filename":       m.Filename,
		"chunk_index":    m.ChunkIndex,
		"text":           m.Text,
		"chunk_strategy": m.Strategy,
	}
}
