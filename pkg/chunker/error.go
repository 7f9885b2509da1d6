package chunker

import "errors"

// ErrInvalidWindow is returned when the chunk size and overlap would not
// advance through the text.
var ErrInvalidWindow = errors.New("invalid chunk window")
