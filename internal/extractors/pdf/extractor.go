// Package pdf extracts text from PDF documents using ledongthuc/pdf.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ingest/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Document is the page-level view of a parsed PDF.
type Document interface {
	// NumPage returns the number of pages.
	NumPage() int

	// PageText returns the plain text of page num (1-indexed).
	PageText(num int) (string, error)
}

// Opener parses PDF bytes into a Document.
type Opener func(data []byte) (Document, error)

// Extractor handles PDF documents.
type Extractor struct {
	open Opener
}

// Option configures the extractor.
type Option func(*Extractor)

// WithOpener replaces the PDF parser. Used by tests.
func WithOpener(open Opener) Option {
	return func(e *Extractor) {
		if open != nil {
			e.open = open
		}
	}
}

// New creates a new PDF extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{open: openReader}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".pdf"}
}

// Extract returns the text of every page in order, joined by newlines.
// Pages whose text cannot be decoded are skipped.
func (e *Extractor) Extract(ctx context.Context, file *domain.UploadedFile) (text string, err error) {
	if file == nil {
		return "", domain.ErrInvalidInput
	}
	if len(file.Content) == 0 {
		return "", domain.ErrEmptyInput
	}

	// The parser panics on some malformed structures.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %s: %v", domain.ErrDecode, file.Name, r)
		}
	}()

	doc, err := e.open(file.Content)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrDecode, file.Name, err)
	}

	numPages := doc.NumPage()
	if numPages == 0 {
		return "", fmt.Errorf("%w: %s has no pages", domain.ErrEmptyInput, file.Name)
	}

	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		pageText, err := readPage(doc, i)
		if err != nil {
			logger.Debug("Skipping page %d of %s: %v", i, file.Name, err)
			continue
		}
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		pages = append(pages, pageText)
	}

	text = strings.Join(pages, "\n")
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrNoExtractableText, file.Name)
	}
	return text, nil
}

// readPage returns the text of one page, converting parser panics to errors.
func readPage(doc Document, num int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d: %v", num, r)
		}
	}()
	return doc.PageText(num)
}

// reader adapts *pdf.Reader to Document.
type reader struct {
	r *pdf.Reader
}

func openReader(data []byte) (Document, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return &reader{r: r}, nil
}

func (d *reader) NumPage() int {
	return d.r.NumPage()
}

func (d *reader) PageText(num int) (string, error) {
	p := d.r.Page(num)
	if p.V.IsNull() {
		return "", nil
	}

	fonts := make(map[string]*pdf.Font)
	for _, name := range p.Fonts() {
		f := p.Font(name)
		fonts[name] = &f
	}
	return p.GetPlainText(fonts)
}
