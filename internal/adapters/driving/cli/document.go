package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driving"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage stored documents",
	Long:  `List stored documents, show their chunks, delete them, or rebuild their vector index entries.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents, newest first",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentChunksCmd = &cobra.Command{
	Use:   "chunks [doc-id]",
	Short: "Print the chunks of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentChunks,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document",
	Long:  `Removes a document, its chunks, and its vector and keyword index entries.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var documentReindexCmd = &cobra.Command{
	Use:   "reindex [doc-id]",
	Short: "Rebuild vector index entries",
	Long:  `Upserts a document's stored chunk embeddings into the configured vector index.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentReindex,
}

// listLimit is a flag for the list command.
var listLimit int

func init() {
	documentListCmd.Flags().IntVarP(&listLimit, "limit", "n", driving.MaxListDocuments,
		"Maximum number of documents to list")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentChunksCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentReindexCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := documentService.ListDocuments(cmd.Context(), listLimit)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents found")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    File:     %s\n", docs[i].Filename)
		cmd.Printf("    Strategy: %s\n", docs[i].Strategy)
		cmd.Printf("    Size:     %d characters\n", docs[i].Length)
		cmd.Printf("    Created:  %s\n", docs[i].CreatedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentChunks(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID := args[0]
	chunks, err := documentService.GetChunks(cmd.Context(), docID)
	if err != nil {
		return fmt.Errorf("failed to get chunks: %w", err)
	}

	cmd.Printf("Document %s: %d chunks\n", docID, len(chunks))
	for i := range chunks {
		cmd.Printf("\n--- chunk %d (%d characters) ---\n", chunks[i].Index, chunks[i].Length)
		cmd.Println(chunks[i].Content)
	}
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	result, err := documentService.Delete(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted document %s\n", result.DocumentID)
	cmd.Printf("  Chunks deleted:  %d\n", result.ChunksDeleted)
	cmd.Printf("  Vectors deleted: %d\n", result.VectorsDeleted)
	return nil
}

func runDocumentReindex(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	result, err := documentService.Reindex(cmd.Context(), args[0])
	if errors.Is(err, domain.ErrVectorIndexUnavailable) {
		return errors.New("vector index is disabled; set VECTOR_DB_ENABLED=true to reindex")
	}
	if err != nil {
		return fmt.Errorf("failed to reindex document: %w", err)
	}

	cmd.Printf("Reindexed document %s: %d vectors upserted\n", result.DocumentID, result.VectorsUpserted)
	return nil
}
