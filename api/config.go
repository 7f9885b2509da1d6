// Package api provides the HTTP API server for uploading, scoring, rewriting
// and querying resumes.
package api

import (
	"net/http"
	"time"

	"github.com/papercomputeco/resumini/pkg/ats"
	"github.com/papercomputeco/resumini/pkg/extract"
	"github.com/papercomputeco/resumini/pkg/generator"
	"github.com/papercomputeco/resumini/pkg/jobs"
	"github.com/papercomputeco/resumini/pkg/rag"
	"github.com/papercomputeco/resumini/pkg/tools"
)

const (
	// DefaultRequestTimeout bounds every handler's context.
	DefaultRequestTimeout = 2 * time.Minute

	// DefaultMaxUploadBytes is fiber's request body limit.
	DefaultMaxUploadBytes = 10 << 20

	// uploadPreviewChars is the length of the extracted text echoed back by
	// /upload/file.
	uploadPreviewChars = 500
)

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8000")
	ListenAddr string

	// RequestTimeout bounds each request. Zero selects DefaultRequestTimeout.
	RequestTimeout time.Duration

	// MaxUploadBytes is the body size limit. Zero selects DefaultMaxUploadBytes.
	MaxUploadBytes int

	// Engine is the retrieval engine that owns the shared vector store.
	Engine *rag.Engine

	// Generator phrases /chat answers. Nil makes /chat answer 503.
	Generator generator.Generator

	// Extractor turns uploaded files into text.
	Extractor *extract.Extractor

	// Scorer is the heuristic ATS scorer.
	Scorer *ats.Scorer

	// Tools runs the generator-backed summary, feedback, optimization and
	// LaTeX preview calls.
	Tools *tools.Toolkit

	// Jobs is optional. /jobs answers 503 when it is nil.
	Jobs jobs.Searcher

	// MCPHandler is mounted at /mcp when set.
	MCPHandler http.Handler
}
