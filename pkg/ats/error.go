package ats

import "errors"

// ErrInvalidConfig is returned when scoring criteria cannot produce a score.
var ErrInvalidConfig = errors.New("invalid ats scoring config")
