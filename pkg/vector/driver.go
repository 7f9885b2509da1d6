// Package vector provides the resume knowledge store: an append-only index of
// chunk embeddings searched by exact nearest neighbour.
package vector

import "context"

// Result is a single nearest-neighbour hit.
type Result struct {
	// Index is the insertion position of the chunk in the store. It is the
	// chunk's only identity.
	Index int `json:"index"`

	// Text is the chunk text stored alongside the vector.
	Text string `json:"text"`

	// Distance is the squared Euclidean distance to the query (lower = closer).
	Distance float64 `json:"distance"`
}

// Store holds chunk embeddings and their texts in parallel, append-only
// sequences. Every implementation must keep the number of vectors equal to
// the number of texts and reject vectors whose dimension differs from the
// first one ever added.
type Store interface {
	// Add appends vectors and their texts atomically and returns the total
	// number of vectors held afterwards. Adding zero vectors is a no-op.
	Add(ctx context.Context, vectors [][]float32, texts []string) (int, error)

	// Search returns the k stored chunks closest to query, nearest first.
	// Ties are broken by insertion order. When k exceeds the number of stored
	// vectors all of them are returned.
	Search(ctx context.Context, query []float32, k int) ([]Result, error)

	// Count returns the number of vectors held.
	Count(ctx context.Context) (int, error)

	// Close releases any resources held by the store.
	Close() error
}

// SquaredL2 returns the squared Euclidean distance between a and b, which
// must have equal length.
func SquaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

// ValidateAdd checks the shape of an Add call against the store's dimension.
// dims is 0 when the store has not yet fixed a dimension; the returned value
// is the dimension the batch establishes.
func ValidateAdd(dims int, vectors [][]float32, texts []string) (int, error) {
	if len(vectors) != len(texts) {
		return dims, &LengthMismatchError{Vectors: len(vectors), Texts: len(texts)}
	}
	for i, v := range vectors {
		if dims == 0 {
			if len(v) == 0 {
				return dims, &DimensionError{Expected: 0, Got: 0, Position: i}
			}
			dims = len(v)
		}
		if len(v) != dims {
			return dims, &DimensionError{Expected: dims, Got: len(v), Position: i}
		}
	}
	return dims, nil
}
