package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

// multipartMemory is how much of a multipart body is held in memory before spilling to disk.
const multipartMemory = 8 << 20

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Status:   "ok",
		Service:  ServiceName,
		VectorDB: s.ingest.VectorBackend(),
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.maxUploadBytes {
		writeBodyError(w, &http.MaxBytesError{Limit: s.maxUploadBytes})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeBodyError(w, err)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	strategy := domain.DefaultChunkStrategy
	if raw := r.FormValue("chunk_strategy"); strings.TrimSpace(raw) != "" {
		parsed, err := domain.ParseChunkStrategy(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		strategy = parsed
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, fmt.Errorf("%w: file is required", domain.ErrInvalidInput))
		return
	}
	defer part.Close()

	content, err := io.ReadAll(part)
	if err != nil {
		writeBodyError(w, err)
		return
	}

	result, err := s.ingest.Ingest(r.Context(), domain.UploadedFile{
		Name:    header.Filename,
		Content: content,
	}, strategy)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newUploadResponse(result))
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, fmt.Errorf("%w: limit must be an integer", domain.ErrInvalidInput))
			return
		}
		limit = n
	}

	docs, err := s.documents.ListDocuments(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]documentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, newDocumentResponse(&docs[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetChunks(w http.ResponseWriter, r *http.Request) {
	chunks, err := s.documents.GetChunks(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]chunkResponse, 0, len(chunks))
	for i := range chunks {
		out = append(out, newChunkResponse(&chunks[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	result, err := s.documents.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{
		DocumentID:     result.DocumentID,
		ChunksDeleted:  result.ChunksDeleted,
		VectorsDeleted: result.VectorsDeleted,
	})
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	result, err := s.documents.Reindex(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reindexResponse{
		DocumentID:      result.DocumentID,
		VectorsUpserted: result.VectorsUpserted,
	})
}

// writeBodyError reports a request body that could not be read.
func writeBodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeDetail(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
		return
	}
	writeError(w, fmt.Errorf("%w: malformed multipart body: %w", domain.ErrInvalidInput, err))
}
