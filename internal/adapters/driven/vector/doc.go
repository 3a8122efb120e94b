// Package vector contains the external vector index adapters.
//
// Each sub-package implements driven.VectorIndex against one provider's
// REST API:
//
//   - pinecone: Pinecone serverless indexes (control plane + data plane)
//   - qdrant: Qdrant collections
//
// Both create their index or collection on startup when it is missing,
// sized to the embedding model's dimension with cosine distance.
package vector
