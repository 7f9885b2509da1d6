// Package hashing implements an offline Embedder using feature hashing of
// lowercase word unigrams and bigrams. It needs no model server, which makes
// it the embedder for tests, demos and air-gapped installs. Retrieval quality
// is lexical, not semantic.
package hashing

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/papercomputeco/resumini/pkg/embeddings"
)

// DefaultDimensions matches the dimension of all-MiniLM-L6-v2 so stores can
// switch between this and a real model without reconfiguration.
const DefaultDimensions = 384

// Embedder hashes tokens into a fixed number of buckets.
type Embedder struct {
	dims int
}

// NewEmbedder creates a hashing embedder with dims buckets.
func NewEmbedder(dims int) (*Embedder, error) {
	if dims == 0 {
		dims = DefaultDimensions
	}
	if dims < 0 {
		return nil, fmt.Errorf("hashing embedder dimensions must be positive, got %d", dims)
	}
	return &Embedder{dims: dims}, nil
}

// Embed returns the L2 normalised hashed term vector of text. Text with no
// word characters embeds to the zero vector.
func (e *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	v := make([]float64, e.dims)

	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
	for i, tok := range tokens {
		e.add(v, tok, 1)
		if i > 0 {
			e.add(v, tokens[i-1]+" "+tok, 0.5)
		}
	}

	var norm float64
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)

	out := make([]float32, e.dims)
	if norm == 0 {
		return out, nil
	}
	for i, x := range v {
		out[i] = float32(x / norm)
	}
	return out, nil
}

// add hashes term into a bucket with a sign bit so collisions tend to cancel.
func (e *Embedder) add(v []float64, term string, weight float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(term))
	sum := h.Sum64()

	bucket := int(sum % uint64(e.dims))
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	v[bucket] += weight
}

// Close is a no-op.
func (e *Embedder) Close() error {
	return nil
}

var _ embeddings.Embedder = (*Embedder)(nil)
