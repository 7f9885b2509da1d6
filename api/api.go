package api

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Server is the API server for the resume knowledge base and tools.
type Server struct {
	config Config
	logger *slog.Logger
	app    *fiber.App
}

// NewServer creates a new API server.
// The engine and its store are injected so the same store can be shared with
// the MCP server and the inbox workers.
func NewServer(config Config, logger *slog.Logger) (*Server, error) {
	switch {
	case config.Engine == nil:
		return nil, errors.New("retrieval engine is required")
	case config.Extractor == nil:
		return nil, errors.New("text extractor is required")
	case config.Scorer == nil:
		return nil, errors.New("ats scorer is required")
	case config.Tools == nil:
		return nil, errors.New("toolkit is required")
	case logger == nil:
		return nil, errors.New("logger is required")
	}

	if config.RequestTimeout <= 0 {
		config.RequestTimeout = DefaultRequestTimeout
	}
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = DefaultMaxUploadBytes
	}

	s := &Server{
		config: config,
		logger: logger,
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             config.MaxUploadBytes,
		ErrorHandler:          s.handleError,
	})

	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/", s.handleRoot)
	app.Get("/ping", s.handlePing)
	app.Get("/stats", s.handleStats)

	app.Post("/upload/file", s.handleUploadFile)
	app.Post("/upload/text", s.handleUploadText)

	app.Post("/analyze/summary", s.handleSummary)
	app.Post("/analyze/ats", s.handleATS)
	app.Post("/optimize", s.handleOptimize)
	app.Post("/chat", s.handleChat)
	app.Post("/jobs", s.handleJobs)
	app.Post("/preview/latex", s.handleLatexPreview)

	if config.MCPHandler != nil {
		app.All("/mcp", adaptor.HTTPHandler(config.MCPHandler))
	}

	s.app = app
	return s, nil
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		"listen", s.config.ListenAddr,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// requestContext derives the handler context, bounded by the request timeout.
func (s *Server) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), s.config.RequestTimeout)
}
