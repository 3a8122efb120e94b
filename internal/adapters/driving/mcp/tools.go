package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

// IngestFileInput is the input schema for the ingest_file tool.
type IngestFileInput struct {
	Path     string `json:"path" jsonschema:"path of a local .pdf or .txt file to ingest"`
	Strategy string `json:"chunk_strategy,omitempty" jsonschema:"chunking strategy: recursive (default) or fixed"`
}

// IngestFileOutput is the output schema for the ingest_file tool.
type IngestFileOutput struct {
	DocumentID          string `json:"doc_id"`
	Filename            string `json:"filename"`
	NumChunks           int    `json:"num_chunks"`
	Strategy            string `json:"chunk_strategy"`
	TextLength          int    `json:"text_length"`
	AvgChunkSize        int    `json:"avg_chunk_size"`
	VectorIndexUploaded bool   `json:"vector_db_uploaded"`
	VectorBackend       string `json:"vector_db"`
	KeywordIndexed      bool   `json:"keyword_indexed"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of documents to return (default and maximum 100)"`
}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput describes a stored document.
type DocumentOutput struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	Strategy  string `json:"chunk_strategy"`
	Size      int    `json:"size"`
	CreatedAt string `json:"created_at"`
}

// DocumentIDInput is the input schema for tools addressing one document.
type DocumentIDInput struct {
	DocumentID string `json:"document_id" jsonschema:"the document ID returned by ingest_file or list_documents"`
}

// GetChunksOutput is the output schema for the get_chunks tool.
type GetChunksOutput struct {
	Chunks []ChunkOutput `json:"chunks"`
	Count  int           `json:"count"`
}

// ChunkOutput describes one stored chunk.
type ChunkOutput struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	Index      int    `json:"chunk_index"`
	Text       string `json:"text"`
	Length     int    `json:"length"`
}

// DeleteDocumentOutput is the output schema for the delete_document tool.
type DeleteDocumentOutput struct {
	DocumentID     string `json:"doc_id"`
	ChunksDeleted  int    `json:"chunks_deleted"`
	VectorsDeleted int    `json:"vectors_deleted"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_file",
		Description: "Extract, chunk, embed and store a local PDF or text file",
	}, s.handleIngestFile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List stored documents, newest first",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_chunks",
		Description: "Get the chunks of a stored document in order",
	}, s.handleGetChunks)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_document",
		Description: "Delete a document with its chunks and index entries",
	}, s.handleDeleteDocument)
}

// handleIngestFile handles the ingest_file tool invocation.
func (s *Server) handleIngestFile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestFileInput,
) (*mcp.CallToolResult, IngestFileOutput, error) {
	if strings.TrimSpace(input.Path) == "" {
		return nil, IngestFileOutput{}, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}

	strategy := domain.DefaultChunkStrategy
	if strings.TrimSpace(input.Strategy) != "" {
		parsed, err := domain.ParseChunkStrategy(input.Strategy)
		if err != nil {
			return nil, IngestFileOutput{}, err
		}
		strategy = parsed
	}

	content, err := os.ReadFile(input.Path)
	if err != nil {
		return nil, IngestFileOutput{}, fmt.Errorf("reading %s: %w", input.Path, err)
	}

	result, err := s.ports.Ingest.Ingest(ctx, domain.UploadedFile{
		Name:    filepath.Base(input.Path),
		Content: content,
	}, strategy)
	if err != nil {
		return nil, IngestFileOutput{}, err
	}

	return nil, IngestFileOutput{
		DocumentID:          result.DocumentID,
		Filename:            result.Filename,
		NumChunks:           result.NumChunks,
		Strategy:            result.Strategy.String(),
		TextLength:          result.TextLength,
		AvgChunkSize:        result.AvgChunkSize,
		VectorIndexUploaded: result.VectorIndexUploaded,
		VectorBackend:       result.VectorBackend,
		KeywordIndexed:      result.KeywordIndexed,
	}, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs, err := s.ports.Document.ListDocuments(ctx, input.Limit)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = documentOutput(&docs[i])
	}
	return nil, output, nil
}

// handleGetChunks handles the get_chunks tool invocation.
func (s *Server) handleGetChunks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentIDInput,
) (*mcp.CallToolResult, GetChunksOutput, error) {
	chunks, err := s.ports.Document.GetChunks(ctx, input.DocumentID)
	if err != nil {
		return nil, GetChunksOutput{}, err
	}

	output := GetChunksOutput{
		Chunks: make([]ChunkOutput, len(chunks)),
		Count:  len(chunks),
	}
	for i := range chunks {
		output.Chunks[i] = chunkOutput(&chunks[i])
	}
	return nil, output, nil
}

// handleDeleteDocument handles the delete_document tool invocation.
func (s *Server) handleDeleteDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentIDInput,
) (*mcp.CallToolResult, DeleteDocumentOutput, error) {
	result, err := s.ports.Document.Delete(ctx, input.DocumentID)
	if err != nil {
		return nil, DeleteDocumentOutput{}, err
	}
	return nil, DeleteDocumentOutput{
		DocumentID:     result.DocumentID,
		ChunksDeleted:  result.ChunksDeleted,
		VectorsDeleted: result.VectorsDeleted,
	}, nil
}

func documentOutput(d *domain.Document) DocumentOutput {
	return DocumentOutput{
		ID:        d.ID,
		Filename:  d.Filename,
		Strategy:  d.Strategy.String(),
		Size:      d.Length,
		CreatedAt: d.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func chunkOutput(c *domain.Chunk) ChunkOutput {
	return ChunkOutput{
		ID:         c.ID,
		DocumentID: c.DocumentID,
		Index:      c.Index,
		Text:       c.Content,
		Length:     c.Length,
	}
}
