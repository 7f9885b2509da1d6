package inbox

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultExtensions are the file types picked up from the inbox.
var DefaultExtensions = []string{".pdf", ".docx", ".txt", ".md"}

const defaultSettle = 500 * time.Millisecond

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	Dir        string
	Extensions []string

	// Settle is how long a file must go without events before it is queued,
	// so a file is ingested once after it has been fully written.
	Settle time.Duration

	Pool   *Pool
	Logger *slog.Logger
}

// Watcher queues new or rewritten files in a directory onto a Pool.
type Watcher struct {
	watcher    *fsnotify.Watcher
	dir        string
	extensions []string
	settle     time.Duration
	pool       *Pool
	logger     *slog.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
	stopped bool
}

// NewWatcher starts watching c.Dir. Events are handled once Run is called.
func NewWatcher(c WatcherConfig) (*Watcher, error) {
	if c.Dir == "" {
		return nil, fmt.Errorf("inbox directory is required")
	}
	if c.Pool == nil {
		return nil, fmt.Errorf("inbox watcher requires a pool")
	}

	exts := c.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	normalized := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		normalized = append(normalized, e)
	}

	settle := c.Settle
	if settle <= 0 {
		settle = defaultSettle
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(c.Dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", c.Dir, err)
	}

	return &Watcher{
		watcher:    fw,
		dir:        c.Dir,
		extensions: normalized,
		settle:     settle,
		pool:       c.Pool,
		logger:     c.Logger,
		pending:    make(map[string]*time.Timer),
	}, nil
}

// Run handles filesystem events until ctx is cancelled, then stops the
// watcher. Pending files that have not settled are dropped.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("watching inbox", "dir", w.dir, "extensions", w.extensions)
	defer w.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.isWatchedExtension(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				w.schedule(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("inbox watcher error", "error", err)
		}
	}
}

// schedule (re)starts the settle timer for path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Reset(w.settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.pending, path)

		// Enqueue never blocks; holding the lock keeps it ordered before stop.
		if !w.stopped {
			w.pool.Enqueue(Job{Path: path})
		}
	})
}

func (w *Watcher) stop() {
	w.mu.Lock()
	w.stopped = true
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	if err := w.watcher.Close(); err != nil {
		w.logger.Warn("closing inbox watcher", "error", err)
	}
}

func (w *Watcher) isWatchedExtension(path string) bool {
	return slices.Contains(w.extensions, strings.ToLower(filepath.Ext(path)))
}
