// Package plaintext extracts text from UTF-8 .txt files.
package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extractor handles plain text documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".txt"}
}

// Extract decodes the file as UTF-8, dropping a leading byte order mark.
func (e *Extractor) Extract(_ context.Context, file *domain.UploadedFile) (string, error) {
	if file == nil {
		return "", domain.ErrInvalidInput
	}
	if len(file.Content) == 0 {
		return "", domain.ErrEmptyInput
	}

	content := bytes.TrimPrefix(file.Content, utf8BOM)
	if !utf8.Valid(content) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", domain.ErrDecode, file.Name)
	}

	text := string(content)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s contains only whitespace", domain.ErrEmptyInput, file.Name)
	}
	return text, nil
}
