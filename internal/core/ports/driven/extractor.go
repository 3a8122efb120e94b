package driven

import (
	"context"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

// Extractor turns the bytes of one file format into plain text.
type Extractor interface {
	// Extensions returns the lower-case file extensions handled, with dot (e.g., ".pdf").
	Extensions() []string

	// Extract returns the text of the file.
	Extract(ctx context.Context, file *domain.UploadedFile) (string, error)
}

// TextExtractor selects an Extractor by filename and runs it.
type TextExtractor interface {
	// Extract returns the text of the file, or domain.ErrUnsupportedFormat
	// when no extractor handles its extension.
	Extract(ctx context.Context, file *domain.UploadedFile) (string, error)

	// Supported reports whether filename has a registered extension.
	Supported(filename string) bool
}
