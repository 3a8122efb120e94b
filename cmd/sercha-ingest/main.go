// Command sercha-ingest runs the document ingestion service.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/sercha-ingest/internal/adapters/driving/cli"
)

// Version information (set by goreleaser).
var version = "dev"

func main() {
	cli.SetVersion(version)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
