// Package rag is the retrieval engine: it indexes resume text into the vector
// store and answers questions from the nearest stored chunks only.
package rag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/papercomputeco/resumini/pkg/chunker"
	"github.com/papercomputeco/resumini/pkg/embeddings"
	"github.com/papercomputeco/resumini/pkg/eventstream"
	"github.com/papercomputeco/resumini/pkg/eventstream/nop"
	"github.com/papercomputeco/resumini/pkg/generator"
	"github.com/papercomputeco/resumini/pkg/logger"
	"github.com/papercomputeco/resumini/pkg/vector"
)

// DefaultTopK is the number of chunks retrieved when a caller does not say.
const DefaultTopK = 4

// Config wires the engine's collaborators.
type Config struct {
	Store    vector.Store
	Embedder embeddings.Embedder

	// Chunking is the window used by Ingest. Zero values select the defaults.
	Chunking chunker.Config

	// TopK is used by Answer and Retrieve when the caller passes k <= 0.
	TopK int

	// Publisher receives a ResumeStoredEvent after each successful ingest.
	// Nil disables publishing.
	Publisher eventstream.Publisher

	Logger *slog.Logger
}

// IngestResult reports what an Ingest did to the store.
type IngestResult struct {
	Status       string `json:"status"`
	ChunksAdded  int    `json:"chunks_added"`
	TotalVectors int    `json:"total_vectors"`
}

// Engine owns no state of its own; the store it is given is the knowledge base.
type Engine struct {
	store     vector.Store
	embedder  embeddings.Embedder
	chunker   *chunker.Chunker
	topK      int
	publisher eventstream.Publisher
	logger    *slog.Logger
}

// NewEngine validates c and builds an Engine.
func NewEngine(c Config) (*Engine, error) {
	if c.Store == nil {
		return nil, errors.New("rag engine requires a vector store")
	}
	if c.Embedder == nil {
		return nil, errors.New("rag engine requires an embedder")
	}

	window := c.Chunking
	if window.Size == 0 && window.Overlap == 0 {
		window = chunker.NewDefaultConfig()
	}
	ch, err := chunker.New(window)
	if err != nil {
		return nil, err
	}

	topK := c.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	publisher := c.Publisher
	if publisher == nil {
		publisher = nop.NewPublisher()
	}

	log := c.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Engine{
		store:     c.Store,
		embedder:  c.Embedder,
		chunker:   ch,
		topK:      topK,
		publisher: publisher,
		logger:    log,
	}, nil
}

// Ingest chunks text, embeds every chunk and appends them to the store in a
// single Add. Embedding happens before the store is touched, so a failed
// embed leaves the store unchanged.
func (e *Engine) Ingest(ctx context.Context, text string, source eventstream.EventSource) (*IngestResult, error) {
	chunks := e.chunker.Chunk(text)
	if len(chunks) == 0 {
		return nil, ErrEmptyDocument
	}

	vectors, err := embeddings.EmbedAll(ctx, e.embedder, chunks)
	if err != nil {
		return nil, fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
	}

	total, err := e.store.Add(ctx, vectors, chunks)
	if err != nil {
		return nil, fmt.Errorf("storing chunks: %w", err)
	}

	e.logger.Info("resume stored",
		"origin", source.Origin,
		"filename", source.Filename,
		"chunks_added", len(chunks),
		"total_vectors", total,
	)

	event := eventstream.NewResumeStoredEvent(source, eventstream.IndexMeta{
		Words:        len(strings.Fields(text)),
		ChunksAdded:  len(chunks),
		TotalVectors: total,
	})
	if err := e.publisher.PublishResumeStored(ctx, event); err != nil {
		e.logger.Warn("failed to publish resume stored event",
			"event_id", event.EventID,
			"error", err,
		)
	}

	return &IngestResult{
		Status:       "success",
		ChunksAdded:  len(chunks),
		TotalVectors: total,
	}, nil
}

// Retrieve returns the k chunks nearest to question. It fails with
// vector.ErrNotReady before embedding anything when the store is empty.
func (e *Engine) Retrieve(ctx context.Context, question string, k int) ([]vector.Result, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	if k <= 0 {
		k = e.topK
	}

	count, err := e.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting stored chunks: %w", err)
	}
	if count == 0 {
		return nil, vector.ErrNotReady
	}

	query, err := e.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	results, err := e.store.Search(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("searching stored chunks: %w", err)
	}
	return results, nil
}

// Answer retrieves the k nearest chunks and asks gen to answer question from
// them alone. The generator is called at most once and never while the store
// is locked.
func (e *Engine) Answer(ctx context.Context, question string, k int, gen generator.Generator) (string, error) {
	if gen == nil {
		return "", generator.ErrNotConfigured
	}

	results, err := e.Retrieve(ctx, question, k)
	if err != nil {
		return "", err
	}

	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Text
	}

	answer, err := gen.Generate(ctx, BuildPrompt(strings.Join(texts, "\n\n"), question))
	if err != nil {
		return "", generator.Wrap(err)
	}

	e.logger.Debug("answered question from resume context",
		"chunks", len(results),
	)
	return strings.TrimSpace(answer), nil
}

// Count returns the number of stored chunks.
func (e *Engine) Count(ctx context.Context) (int, error) {
	return e.store.Count(ctx)
}

// BuildPrompt embeds context and question verbatim in the context-only
// answering instruction.
func BuildPrompt(context, question string) string {
	var sb strings.Builder
	sb.WriteString("Answer using ONLY the context below.\n\n")
	sb.WriteString("Context:\n")
	sb.WriteString(context)
	sb.WriteString("\n\nQuestion:\n")
	sb.WriteString(question)
	sb.WriteString("\n")
	return sb.String()
}
