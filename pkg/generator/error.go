package generator

import (
	"errors"
	"fmt"
)

var (
	// ErrGeneration is returned when the generator fails or times out.
	ErrGeneration = errors.New("generation failed")

	// ErrNotConfigured is returned when no generator is available.
	ErrNotConfigured = errors.New("generator not configured")
)

// Wrap classifies err as a generation failure, keeping the cause for errors.Is.
// It returns nil for a nil err and leaves errors already classified untouched.
func Wrap(err error) error {
	if err == nil || errors.Is(err, ErrGeneration) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrGeneration, err)
}
