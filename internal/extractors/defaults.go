package extractors

import (
	"github.com/custodia-labs/sercha-ingest/internal/extractors/pdf"
	"github.com/custodia-labs/sercha-ingest/internal/extractors/plaintext"
)

// NewDefaultRegistry returns a registry with the built-in PDF and TXT extractors.
func NewDefaultRegistry() *Registry {
	return NewRegistry(pdf.New(), plaintext.New())
}
