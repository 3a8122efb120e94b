package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/logger"
)

type statusResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	VectorDB string `json:"vector_db"`
}

type uploadResponse struct {
	DocumentID       string               `json:"doc_id"`
	Filename         string               `json:"filename"`
	NumChunks        int                  `json:"num_chunks"`
	Strategy         domain.ChunkStrategy `json:"chunk_strategy"`
	TextLength       int                  `json:"text_length"`
	AvgChunkSize     int                  `json:"avg_chunk_size"`
	VectorDBUploaded bool                 `json:"vector_db_uploaded"`
	VectorDB         string               `json:"vector_db"`
	KeywordIndexed   bool                 `json:"keyword_indexed"`
}

func newUploadResponse(r *domain.IngestResult) uploadResponse {
	return uploadResponse{
		DocumentID:       r.DocumentID,
		Filename:         r.Filename,
		NumChunks:        r.NumChunks,
		Strategy:         r.Strategy,
		TextLength:       r.TextLength,
		AvgChunkSize:     r.AvgChunkSize,
		VectorDBUploaded: r.VectorIndexUploaded,
		VectorDB:         r.VectorBackend,
		KeywordIndexed:   r.KeywordIndexed,
	}
}

type documentResponse struct {
	ID        string               `json:"id"`
	Filename  string               `json:"filename"`
	Strategy  domain.ChunkStrategy `json:"chunk_strategy"`
	Size      int                  `json:"size"`
	CreatedAt string               `json:"created_at"`
}

func newDocumentResponse(d *domain.Document) documentResponse {
	return documentResponse{
		ID:        d.ID,
		Filename:  d.Filename,
		Strategy:  d.Strategy,
		Size:      d.Length,
		CreatedAt: d.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// chunkResponse omits the embedding.
type chunkResponse struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	Index      int    `json:"chunk_index"`
	Text       string `json:"text"`
	Length     int    `json:"length"`
}

func newChunkResponse(c *domain.Chunk) chunkResponse {
	return chunkResponse{
		ID:         c.ID,
		DocumentID: c.DocumentID,
		Index:      c.Index,
		Text:       c.Content,
		Length:     c.Length,
	}
}

type deleteResponse struct {
	DocumentID     string `json:"doc_id"`
	ChunksDeleted  int    `json:"chunks_deleted"`
	VectorsDeleted int    `json:"vectors_deleted"`
}

type reindexResponse struct {
	DocumentID      string `json:"doc_id"`
	VectorsUpserted int    `json:"vectors_upserted"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// StatusCode maps a service error to an HTTP status.
func StatusCode(err error) int {
	switch {
	case domain.IsClientError(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := StatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.Error("%v", err)
	}
	writeDetail(w, status, err.Error())
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("Failed to encode response: %v", err)
	}
}
