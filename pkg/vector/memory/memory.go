// Package memory provides the default in-process vector store. Search is an
// exact brute-force scan, which is what a single resume index needs.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/papercomputeco/resumini/pkg/vector"
)

// Config holds configuration for the in-memory store.
type Config struct {
	// Dimensions fixes the vector dimension up front. When zero, the first
	// non-empty Add establishes it.
	Dimensions int

	// MaxVectors caps the number of stored vectors. Adds that would exceed it
	// are rejected whole. Zero means unbounded.
	MaxVectors int
}

// Store implements vector.Store with parallel in-memory slices.
type Store struct {
	mu      sync.RWMutex
	dims    int
	max     int
	vectors [][]float32
	texts   []string
	logger  *slog.Logger
}

// NewStore creates an empty in-memory vector store.
func NewStore(c Config, logger *slog.Logger) (*Store, error) {
	if c.Dimensions < 0 {
		return nil, fmt.Errorf("dimensions cannot be negative: %d", c.Dimensions)
	}
	if c.MaxVectors < 0 {
		return nil, fmt.Errorf("max vectors cannot be negative: %d", c.MaxVectors)
	}

	logger.Debug("memory vector store initialized",
		"dimensions", c.Dimensions,
		"max_vectors", c.MaxVectors,
	)

	return &Store{
		dims:   c.Dimensions,
		max:    c.MaxVectors,
		logger: logger,
	}, nil
}

// Add appends vectors and texts. Either every vector is stored or none is.
func (s *Store) Add(_ context.Context, vectors [][]float32, texts []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(vectors) == 0 && len(texts) == 0 {
		return len(s.vectors), nil
	}

	dims, err := vector.ValidateAdd(s.dims, vectors, texts)
	if err != nil {
		return len(s.vectors), err
	}
	if s.max > 0 && len(s.vectors)+len(vectors) > s.max {
		return len(s.vectors), fmt.Errorf("%w: holding %d, adding %d, max %d",
			vector.ErrCapacityExceeded, len(s.vectors), len(vectors), s.max)
	}

	for _, v := range vectors {
		s.vectors = append(s.vectors, slices.Clone(v))
	}
	s.texts = append(s.texts, texts...)
	s.dims = dims

	s.logger.Debug("added vectors to memory store",
		"added", len(vectors),
		"total", len(s.vectors),
	)

	return len(s.vectors), nil
}

// Search ranks every stored vector by squared L2 distance to query.
func (s *Store) Search(_ context.Context, query []float32, k int) ([]vector.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.vectors) == 0 {
		return nil, vector.ErrNotReady
	}
	if len(query) != s.dims {
		return nil, &vector.DimensionError{Expected: s.dims, Got: len(query), Position: -1}
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", vector.ErrInvalidK, k)
	}

	results := make([]vector.Result, len(s.vectors))
	for i, v := range s.vectors {
		results[i] = vector.Result{
			Index:    i,
			Text:     s.texts[i],
			Distance: vector.SquaredL2(query, v),
		}
	}

	// Stable sort keeps insertion order among equal distances.
	slices.SortStableFunc(results, func(a, b vector.Result) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		default:
			return 0
		}
	})

	return results[:min(k, len(results))], nil
}

// Count returns the number of stored vectors.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors), nil
}

// Dimensions returns the fixed vector dimension, or 0 if none is fixed yet.
func (s *Store) Dimensions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dims
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
