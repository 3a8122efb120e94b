package domain

import (
	"fmt"
	"strings"
)

// ChunkStrategy selects how document text is split into chunks.
// The zero value is not a valid strategy.
type ChunkStrategy int

const (
	// StrategyRecursive splits on the largest of paragraph, line, sentence,
	// word and character boundaries that keeps chunks within the target size,
	// carrying an overlap into the next chunk.
	StrategyRecursive ChunkStrategy = iota + 1

	// StrategyFixed slices text into consecutive non-overlapping windows.
	StrategyFixed
)

// DefaultChunkStrategy is used when a caller does not select one.
const DefaultChunkStrategy = StrategyRecursive

var strategyNames = map[ChunkStrategy]string{
	StrategyRecursive: "recursive",
	StrategyFixed:     "fixed",
}

// ParseChunkStrategy converts a strategy name into a ChunkStrategy.
// Names are matched case-insensitively after trimming whitespace.
func ParseChunkStrategy(name string) (ChunkStrategy, error) {
	normalised := strings.ToLower(strings.TrimSpace(name))
	for strategy, n := range strategyNames {
		if n == normalised {
			return strategy, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (expected recursive or fixed)", ErrInvalidStrategy, name)
}

// Valid reports whether s is one of the known strategies.
func (s ChunkStrategy) Valid() bool {
	_, ok := strategyNames[s]
	return ok
}

// String returns the strategy name.
func (s ChunkStrategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ChunkStrategy(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s ChunkStrategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStrategy, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ChunkStrategy) UnmarshalText(text []byte) error {
	parsed, err := ParseChunkStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
