// Package cli provides the sercha-ingest command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-ingest/internal/config"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-ingest/internal/logger"
)

// skipServices marks commands that run without configuration or clients.
const skipServices = "skip-services"

var (
	version = "dev"

	cfgFile string
	verbose bool

	// Set by bootstrap, or directly by tests.
	appConfig       *config.Config
	ingestService   driving.IngestService
	documentService driving.DocumentService
	running         *app
)

var rootCmd = &cobra.Command{
	Use:   "sercha-ingest",
	Short: "Document ingestion service",
	Long: `sercha-ingest extracts text from PDF and plain-text files, splits it into
chunks, embeds the chunks with OpenAI and stores everything in a local
document store, optionally mirrored to a vector index and a keyword index.`,
	SilenceUsage:       true,
	PersistentPreRunE:  bootstrap,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error { return closeServices() },
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to a TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command until it completes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer func() {
		if err := closeServices(); err != nil {
			logger.Warn("Shutdown: %v", err)
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

// bootstrap loads configuration and constructs the services a command needs.
func bootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if _, ok := cmd.Annotations[skipServices]; ok {
		return nil
	}
	if ingestService != nil && documentService != nil {
		return nil
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		logger.SetVerbose(true)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("initialising services: %w", err)
	}

	appConfig = cfg
	running = a
	ingestService = a.ingest
	documentService = a.documents
	return nil
}

// closeServices releases clients opened by bootstrap. It is safe to call twice.
func closeServices() error {
	if running == nil {
		return nil
	}
	a := running
	running = nil
	ingestService = nil
	documentService = nil
	return a.Close()
}
