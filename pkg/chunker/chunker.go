// Package chunker splits resume text into overlapping word windows that are
// embedded and indexed by the vector store.
package chunker

import (
	"fmt"
	"strings"
)

const (
	// DefaultSize is the number of words in each chunk.
	DefaultSize = 500

	// DefaultOverlap is the number of words shared by consecutive chunks.
	DefaultOverlap = 80
)

// Config holds the window parameters for a Chunker.
type Config struct {
	Size    int
	Overlap int
}

// NewDefaultConfig returns the default chunking window.
func NewDefaultConfig() Config {
	return Config{
		Size:    DefaultSize,
		Overlap: DefaultOverlap,
	}
}

// Validate checks that the window advances on every step.
func (c Config) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("%w: size must be positive, got %d", ErrInvalidWindow, c.Size)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("%w: overlap must not be negative, got %d", ErrInvalidWindow, c.Overlap)
	}
	if c.Overlap >= c.Size {
		return fmt.Errorf("%w: overlap %d must be smaller than size %d", ErrInvalidWindow, c.Overlap, c.Size)
	}
	return nil
}

// Chunker splits text with a fixed, validated window.
type Chunker struct {
	cfg Config
}

// New returns a Chunker for the given window.
func New(cfg Config) (*Chunker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Chunker{cfg: cfg}, nil
}

// Chunk splits text using the chunker's window.
func (c *Chunker) Chunk(text string) []string {
	return split(strings.Fields(text), c.cfg.Size, c.cfg.Overlap)
}

// Chunk splits text into windows of size words, each starting size-overlap
// words after the previous one. Words are whitespace separated tokens and are
// rejoined with a single space. Text with fewer than size words yields a single
// chunk; empty text yields none.
func Chunk(text string, size, overlap int) ([]string, error) {
	if err := (Config{Size: size, Overlap: overlap}).Validate(); err != nil {
		return nil, err
	}
	return split(strings.Fields(text), size, overlap), nil
}

func split(words []string, size, overlap int) []string {
	if len(words) == 0 {
		return []string{}
	}

	step := size - overlap
	chunks := make([]string, 0, (len(words)+step-1)/step)
	for start := 0; ; start += step {
		end := min(start+size, len(words))
		chunks = append(chunks, strings.Join(words[start:end], " "))

		// The window that reaches the last word is the final one; any later
		// window would only repeat the overlap.
		if end == len(words) {
			break
		}
	}
	return chunks
}
