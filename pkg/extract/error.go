package extract

import "errors"

var (
	// ErrNotFound is returned when the file to extract does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrParseFailure is returned when a document cannot be decoded into text.
	ErrParseFailure = errors.New("failed to parse document")
)
