package render

import "errors"

var (
	// ErrRenderFailure is returned when a document could not be produced.
	ErrRenderFailure = errors.New("render failed")

	// ErrToolchainMissing is returned alongside ErrRenderFailure when the
	// external rendering command is not installed.
	ErrToolchainMissing = errors.New("render toolchain not installed")
)
