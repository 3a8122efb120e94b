// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TextExtractor: Selects an Extractor by file extension and extracts text
//   - Chunker: Splits extracted text into chunks
//   - EmbeddingService: Generates vector embeddings (OpenAI)
//   - DocumentStore: Authoritative document and chunk persistence (SQLite)
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - VectorIndex: Mirrors chunk embeddings into Pinecone, Qdrant or a local table.
//   - KeywordIndex: Mirrors chunk text into a full-text index (Bleve).
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, extractor, or chunker package
package driven
