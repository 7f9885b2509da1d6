// Package inbox watches a directory for dropped resumes and ingests them in
// the background.
//
// The pool decouples extraction, embedding and storage from the filesystem
// event loop so a slow embedder never stalls the watcher.
package inbox

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"sync"
	"time"

	"github.com/papercomputeco/resumini/pkg/eventstream"
	"github.com/papercomputeco/resumini/pkg/extract"
	"github.com/papercomputeco/resumini/pkg/rag"
)

var (
	defaultNumWorkers   uint = 3
	defaultJobQueueSize uint = 64
	defaultJobTimeout        = 2 * time.Minute
)

// OriginInbox marks events for resumes ingested from the inbox directory.
const OriginInbox = "inbox"

// Job is one file to ingest.
type Job struct {
	Path string
}

// Extractor reads the text out of a file on disk.
type Extractor interface {
	ExtractFile(ctx context.Context, path string) (string, error)
}

// Ingester stores resume text in the retrieval index.
type Ingester interface {
	Ingest(ctx context.Context, text string, source eventstream.EventSource) (*rag.IngestResult, error)
}

// Config is the configuration options for the worker pool.
type Config struct {
	Extractor Extractor
	Ingester  Ingester

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 64).
	QueueSize uint

	// JobTimeout bounds extraction plus ingestion of a single file.
	JobTimeout time.Duration

	// OnDone, when set, is called after each job with its result or error.
	OnDone func(job Job, result *rag.IngestResult, err error)

	Logger *slog.Logger
}

// Pool processes inbox jobs asynchronously via a worker pool.
type Pool struct {
	config *Config
	queue  chan Job
	wg     sync.WaitGroup
	logger *slog.Logger
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.Extractor == nil || c.Ingester == nil {
		return nil, fmt.Errorf("inbox pool requires an extractor and an ingester")
	}
	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}
	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaultJobTimeout
	}
	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	p := &Pool{
		config: c,
		queue:  make(chan Job, c.QueueSize),
		logger: c.Logger,
	}

	p.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go p.worker(i)
	}

	return p, nil
}

// Enqueue submits a job for processing by the worker pool.
// Returns false if the queue is full, resulting in the job being dropped.
func (p *Pool) Enqueue(job Job) bool {
	select {
	case p.queue <- job:
		p.logger.Debug("inbox job queued", "path", job.Path)
		return true
	default:
		p.logger.Error("inbox job not queued, queue full, job dropped", "path", job.Path)
		return false
	}
}

// Close signals workers to stop and waits for in-flight jobs to drain.
func (p *Pool) Close() {
	close(p.queue)
	p.wg.Wait()
}

func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("inbox worker started", "worker_id", id)

	for job := range p.queue {
		result, err := p.processJob(job)
		if p.config.OnDone != nil {
			p.config.OnDone(job, result, err)
		}
	}

	p.logger.Debug("inbox worker stopped", "worker_id", id)
}

func (p *Pool) processJob(job Job) (*rag.IngestResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.config.JobTimeout)
	defer cancel()

	text, err := p.config.Extractor.ExtractFile(ctx, job.Path)
	if err != nil {
		p.logger.Error("inbox extraction failed", "path", job.Path, "error", err)
		return nil, err
	}

	result, err := p.config.Ingester.Ingest(ctx, text, eventstream.EventSource{
		Origin:      OriginInbox,
		Filename:    filepath.Base(job.Path),
		ContentType: extract.MimeType(job.Path),
	})
	if err != nil {
		p.logger.Error("inbox ingest failed", "path", job.Path, "error", err)
		return nil, err
	}

	p.logger.Info("inbox resume stored",
		"path", job.Path,
		"chunks_added", result.ChunksAdded,
		"total_vectors", result.TotalVectors,
	)
	return result, nil
}
