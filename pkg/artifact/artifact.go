// Package artifact stores generated documents (optimized resumes, rendered
// previews) somewhere the caller can fetch them later.
package artifact

import (
	"context"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Ref points at a stored artifact.
type Ref struct {
	Key         string `json:"key"`
	Location    string `json:"location"`
	ContentType string `json:"content_type,omitempty"`
	Size        int    `json:"size"`
}

// Store persists artifacts under a key.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (*Ref, error)
}

// NewKey returns a unique key under prefix with the given extension,
// e.g. "optimized/3f6c...e1.docx".
func NewKey(prefix, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	name := uuid.NewString()
	if ext != "" {
		name += "." + ext
	}
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// CleanKey normalizes key to a relative slash path and reports whether it
// stays inside the store root.
func CleanKey(key string) (string, bool) {
	cleaned := path.Clean("/" + strings.ReplaceAll(key, "\\", "/"))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return "", false
	}
	return cleaned, true
}
