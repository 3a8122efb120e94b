package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-ingest/internal/adapters/driving/api"
	"github.com/custodia-labs/sercha-ingest/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the ingestion HTTP API.

Endpoints:
  POST   /upload/                  multipart upload (file, chunk_strategy)
  GET    /documents/               list documents
  GET    /documents/{id}/chunks    list a document's chunks
  DELETE /documents/{id}           delete a document
  POST   /documents/{id}/reindex   rebuild vector index entries
  GET    /                         service status`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from INGEST_LISTEN_ADDR or :8000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if ingestService == nil || documentService == nil {
		return errors.New("services not configured")
	}

	addr, maxUpload := config.DefaultListenAddr, int64(config.DefaultMaxUploadBytes)
	if appConfig != nil {
		addr, maxUpload = appConfig.ListenAddr, appConfig.MaxUploadBytes
	}
	if flag, _ := cmd.Flags().GetString("addr"); flag != "" {
		addr = flag
	}

	server, err := api.NewServer(ingestService, documentService, api.WithMaxUploadBytes(maxUpload))
	if err != nil {
		return err
	}

	cmd.Printf("Serving on %s\n", addr)
	return server.Run(cmd.Context(), addr)
}
