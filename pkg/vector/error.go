package vector

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady is returned when a store is queried before anything was added.
	ErrNotReady = errors.New("no resume stored yet")

	// ErrDimensionMismatch is returned when a vector's length differs from the
	// dimension fixed by the store.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrLengthMismatch is returned when an Add receives a different number of
	// vectors and texts.
	ErrLengthMismatch = errors.New("vectors and texts length mismatch")

	// ErrInvalidK is returned when a search asks for fewer than one result.
	ErrInvalidK = errors.New("k must be positive")

	// ErrCapacityExceeded is returned when an Add would grow a capped store
	// past its maximum.
	ErrCapacityExceeded = errors.New("vector store capacity exceeded")

	// ErrEmbedding is returned when embedding generation fails.
	ErrEmbedding = errors.New("embedding failed")

	// ErrConnection is returned when a remote vector store connection fails.
	ErrConnection = errors.New("vector store connection failed")
)

// DimensionError reports which vector broke the dimension invariant.
type DimensionError struct {
	Expected int
	Got      int

	// Position is the offset of the vector in its batch, or -1 for a query.
	Position int
}

func (e *DimensionError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("%s: query has %d dimensions, store has %d", ErrDimensionMismatch, e.Got, e.Expected)
	}
	if e.Expected == 0 {
		return fmt.Sprintf("%s: vector %d is empty", ErrDimensionMismatch, e.Position)
	}
	return fmt.Sprintf("%s: vector %d has %d dimensions, expected %d", ErrDimensionMismatch, e.Position, e.Got, e.Expected)
}

func (e *DimensionError) Unwrap() error { return ErrDimensionMismatch }

// LengthMismatchError reports mismatched Add inputs.
type LengthMismatchError struct {
	Vectors int
	Texts   int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("%s: %d vectors, %d texts", ErrLengthMismatch, e.Vectors, e.Texts)
}

func (e *LengthMismatchError) Unwrap() error { return ErrLengthMismatch }
