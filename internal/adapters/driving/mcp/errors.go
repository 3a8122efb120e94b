// Package mcp provides an MCP (Model Context Protocol) server adapter for document ingestion.
// It lets AI assistants ingest local files and inspect or remove stored documents.
package mcp

import "errors"

// ErrMissingIngestService is returned when the ingest service is not provided.
var ErrMissingIngestService = errors.New("mcp: ingest service is required")

// ErrMissingDocumentService is returned when the document service is not provided.
var ErrMissingDocumentService = errors.New("mcp: document service is required")
