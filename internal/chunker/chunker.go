// Package chunker splits extracted document text into chunks.
package chunker

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters
// carried between recursive chunks.
const DefaultChunkOverlap = 200

// separators is the recursive split hierarchy, coarsest first.
// The empty separator splits into single characters.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// Verify interface compliance.
var _ driven.Chunker = (*Splitter)(nil)

// Splitter implements both chunking strategies.
// It holds no mutable state and is safe for concurrent use.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the recursive overlap in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// Split returns the non-empty chunks of text for strategy, in document order.
func (s *Splitter) Split(text string, strategy domain.ChunkStrategy) ([]string, error) {
	if !strategy.Valid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidStrategy, strategy)
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyInput
	}

	var raw []string
	switch strategy {
	case domain.StrategyFixed:
		raw = s.splitFixed(text)
	default:
		raw = s.splitRecursive(text, separators)
	}

	chunks := make([]string, 0, len(raw))
	for _, c := range raw {
		if strings.TrimSpace(c) == "" {
			continue
		}
		chunks = append(chunks, c)
	}
	if len(chunks) == 0 {
		return nil, domain.ErrNoValidChunks
	}
	return chunks, nil
}

// splitFixed slices text into consecutive chunkSize-character windows.
func (s *Splitter) splitFixed(text string) []string {
	runes := []rune(text)
	chunks := make([]string, 0, len(runes)/s.chunkSize+1)
	for start := 0; start < len(runes); start += s.chunkSize {
		end := min(start+s.chunkSize, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// splitRecursive splits text into pieces below chunkSize characters and
// merges them back into overlapping chunks.
func (s *Splitter) splitRecursive(text string, seps []string) []string {
	return s.merge(s.pieces(text, seps))
}

// pieces splits on the first separator present in text, recursing into
// pieces that are still too large with the finer separators. Joining the
// result gives back text.
func (s *Splitter) pieces(text string, seps []string) []string {
	separator := seps[len(seps)-1]
	var finer []string
	for i, sep := range seps {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			finer = seps[i+1:]
			break
		}
	}

	var out []string
	for _, piece := range splitKeepSeparator(text, separator) {
		if utf8.RuneCountInString(piece) < s.chunkSize || len(finer) == 0 {
			out = append(out, piece)
			continue
		}
		out = append(out, s.pieces(piece, finer)...)
	}
	return out
}

// merge combines adjacent pieces into chunks of at most chunkSize characters.
// Emitted chunks are whitespace-trimmed. Each chunk after the first starts
// with the last (up to overlap) characters of the chunk before it.
func (s *Splitter) merge(pieces []string) []string {
	var (
		chunks  []string
		current strings.Builder
		total   int
	)

	for _, piece := range pieces {
		n := utf8.RuneCountInString(piece)
		if total+n > s.chunkSize && total > 0 {
			emitted := strings.TrimSpace(current.String())
			current.Reset()
			total = 0
			if emitted != "" {
				chunks = append(chunks, emitted)
				tail := overlapTail(emitted, min(s.overlap, s.chunkSize-n))
				current.WriteString(tail)
				total = utf8.RuneCountInString(tail)
			}
		}
		current.WriteString(piece)
		total += n
	}
	if doc := strings.TrimSpace(current.String()); doc != "" {
		chunks = append(chunks, doc)
	}
	return chunks
}

// overlapTail returns a suffix of chunk of at most limit characters,
// starting at a word boundary when the window contains one. It is non-empty
// for a positive limit. chunk must be whitespace-trimmed.
func overlapTail(chunk string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(chunk)
	if len(runes) <= limit {
		return chunk
	}
	start := len(runes) - limit
	if unicode.IsSpace(runes[start-1]) {
		return strings.TrimLeftFunc(string(runes[start:]), unicode.IsSpace)
	}
	for i := start; i < len(runes); i++ {
		if unicode.IsSpace(runes[i]) {
			if tail := strings.TrimLeftFunc(string(runes[i:]), unicode.IsSpace); tail != "" {
				return tail
			}
			break
		}
	}
	return string(runes[start:])
}

// splitKeepSeparator splits text on sep, attaching each separator to the
// start of the piece that follows it. Empty pieces are dropped. An empty
// sep splits text into characters.
func splitKeepSeparator(text, sep string) []string {
	if sep == "" {
		pieces := make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	parts := strings.Split(text, sep)
	pieces := make([]string, 0, len(parts))
	if parts[0] != "" {
		pieces = append(pieces, parts[0])
	}
	for _, p := range parts[1:] {
		pieces = append(pieces, sep+p)
	}
	return pieces
}
