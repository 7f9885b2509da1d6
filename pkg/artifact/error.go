package artifact

import "errors"

var (
	// ErrInvalidKey is returned for empty keys or keys that escape the store.
	ErrInvalidKey = errors.New("invalid artifact key")

	// ErrStore is returned when the backend rejects a write.
	ErrStore = errors.New("artifact store failure")
)
