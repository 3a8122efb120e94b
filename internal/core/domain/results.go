package domain

// IngestResult summarises a completed ingestion.
type IngestResult struct {
	DocumentID   string
	Filename     string
	NumChunks    int
	Strategy     ChunkStrategy
	TextLength   int
	AvgChunkSize int

	// VectorIndexUploaded reports whether every vector batch was upserted.
	// It is false when the vector index is disabled.
	VectorIndexUploaded bool

	// VectorBackend names the vector index in use, empty when disabled.
	VectorBackend string

	// KeywordIndexed reports whether chunks reached the keyword index.
	KeywordIndexed bool
}

// DeleteResult summarises a document deletion.
type DeleteResult struct {
	DocumentID     string
	ChunksDeleted  int
	VectorsDeleted int
}

// ReindexResult summarises a vector index rebuild for one document.
type ReindexResult struct {
	DocumentID      string
	VectorsUpserted int
}
