// Package mcp provides an MCP (Model Context Protocol) server exposing the
// resume tools to agents.
package mcp

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/resumini/pkg/ats"
	"github.com/papercomputeco/resumini/pkg/generator"
	"github.com/papercomputeco/resumini/pkg/rag"
	"github.com/papercomputeco/resumini/pkg/tools"
	"github.com/papercomputeco/resumini/pkg/utils"
)

type Config struct {
	// Engine stores resumes and answers questions about them.
	Engine *rag.Engine

	// Generator phrases resume_query answers.
	Generator generator.Generator

	// Scorer backs ats_report.
	Scorer *ats.Scorer

	// Tools backs resume_summary and the optional ats_report feedback.
	Tools *tools.Toolkit

	// Noop for empty MCP server
	Noop bool

	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the resume tools.
func NewServer(c Config) (*Server, error) {
	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "resumini",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	if !c.Noop {
		if c.Engine == nil {
			return nil, errors.New("retrieval engine is required")
		}
		if c.Scorer == nil {
			return nil, errors.New("ats scorer is required")
		}
		if c.Tools == nil {
			return nil, errors.New("toolkit is required")
		}
		if c.Logger == nil {
			return nil, errors.New("logger is required")
		}

		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        storeToolName,
			Description: storeDescription,
		}, s.handleStore)

		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        queryToolName,
			Description: queryDescription,
		}, s.handleQuery)

		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        atsToolName,
			Description: atsDescription,
		}, s.handleATSReport)

		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        summaryToolName,
			Description: summaryDescription,
		}, s.handleSummary)
	}

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}
