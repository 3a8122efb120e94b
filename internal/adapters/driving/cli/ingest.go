package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest a PDF or text file",
	Long: `Extracts the text of a .pdf or .txt file, splits it into chunks, embeds the
chunks and stores the document.

Examples:
  sercha-ingest ingest report.pdf
  sercha-ingest ingest notes.txt --strategy fixed`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

// ingestStrategy is a flag for the ingest command.
var ingestStrategy string

func init() {
	ingestCmd.Flags().StringVarP(&ingestStrategy, "strategy", "s", domain.DefaultChunkStrategy.String(),
		"Chunking strategy: recursive or fixed")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	strategy, err := domain.ParseChunkStrategy(ingestStrategy)
	if err != nil {
		return err
	}

	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	result, err := ingestService.Ingest(cmd.Context(), domain.UploadedFile{
		Name:    filepath.Base(path),
		Content: content,
	}, strategy)
	if err != nil {
		return fmt.Errorf("failed to ingest %s: %w", path, err)
	}

	cmd.Printf("Ingested %s\n\n", result.Filename)
	cmd.Printf("  Document:   %s\n", result.DocumentID)
	cmd.Printf("  Strategy:   %s\n", result.Strategy)
	cmd.Printf("  Characters: %d\n", result.TextLength)
	cmd.Printf("  Chunks:     %d (avg %d characters)\n", result.NumChunks, result.AvgChunkSize)
	if result.VectorBackend != "" {
		cmd.Printf("  Vectors:    %s (uploaded: %t)\n", result.VectorBackend, result.VectorIndexUploaded)
	}
	cmd.Printf("  Keyword:    indexed: %t\n", result.KeywordIndexed)
	return nil
}
