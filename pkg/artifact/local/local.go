// Package local stores artifacts on the local filesystem.
package local

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/papercomputeco/resumini/pkg/artifact"
)

type Config struct {
	// Dir is the root directory artifacts are written under.
	Dir string
}

type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates Dir if needed.
func NewStore(c Config, logger *slog.Logger) (*Store, error) {
	if c.Dir == "" {
		return nil, fmt.Errorf("artifact directory is required")
	}
	dir, err := filepath.Abs(c.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolving artifact directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifact directory: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Put writes data to Dir/key. The Location is the absolute file path.
func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) (*artifact.Ref, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cleaned, ok := artifact.CleanKey(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", artifact.ErrInvalidKey, key)
	}

	target := filepath.Join(s.dir, filepath.FromSlash(cleaned))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", artifact.ErrStore, err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return nil, fmt.Errorf("%w: %v", artifact.ErrStore, err)
	}

	s.logger.Debug("stored artifact", "key", cleaned, "path", target, "bytes", len(data))

	return &artifact.Ref{
		Key:         cleaned,
		Location:    target,
		ContentType: contentType,
		Size:        len(data),
	}, nil
}

var _ artifact.Store = (*Store)(nil)
