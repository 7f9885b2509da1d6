// Package latex renders LaTeX documents to PDF with an external pdflatex.
package latex

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/papercomputeco/resumini/pkg/render"
)

const (
	DefaultCommand = "pdflatex"
	DefaultTimeout = 60 * time.Second

	sourceName = "resume.tex"
	outputName = "resume.pdf"
)

type Config struct {
	// Command is the LaTeX compiler, looked up on PATH.
	Command string

	// Timeout bounds a single compile.
	Timeout time.Duration
}

// Renderer compiles LaTeX source in a scratch directory.
type Renderer struct {
	command string
	timeout time.Duration
	logger  *slog.Logger
}

func New(c Config, logger *slog.Logger) *Renderer {
	if c.Command == "" {
		c.Command = DefaultCommand
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return &Renderer{
		command: c.Command,
		timeout: c.Timeout,
		logger:  logger,
	}
}

// Available reports whether the compiler is on PATH.
func (r *Renderer) Available() bool {
	_, err := exec.LookPath(r.command)
	return err == nil
}

// Render compiles source and returns the PDF bytes.
func (r *Renderer) Render(ctx context.Context, source string) ([]byte, error) {
	bin, err := exec.LookPath(r.command)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %s", render.ErrRenderFailure, render.ErrToolchainMissing, r.command)
	}

	dir, err := os.MkdirTemp("", "resumini-latex-*")
	if err != nil {
		return nil, fmt.Errorf("%w: creating scratch dir: %v", render.ErrRenderFailure, err)
	}
	defer os.RemoveAll(dir)

	if err := os.WriteFile(filepath.Join(dir, sourceName), []byte(source), 0o600); err != nil {
		return nil, fmt.Errorf("%w: writing source: %v", render.ErrRenderFailure, err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin,
		"-interaction=nonstopmode",
		"-halt-on-error",
		"-output-directory", dir,
		sourceName,
	)
	cmd.Dir = dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	if err := cmd.Run(); err != nil {
		r.logger.Debug("latex compile failed", "command", r.command, "output", tail(out.String(), 2000))
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s timed out after %s", render.ErrRenderFailure, r.command, r.timeout)
		}
		return nil, fmt.Errorf("%w: %s: %v", render.ErrRenderFailure, r.command, err)
	}

	pdf, err := os.ReadFile(filepath.Join(dir, outputName))
	if err != nil {
		return nil, fmt.Errorf("%w: %s produced no pdf: %v", render.ErrRenderFailure, r.command, err)
	}

	r.logger.Debug("latex compiled",
		"command", r.command,
		"bytes", len(pdf),
		"duration", time.Since(start),
	)
	return pdf, nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

var _ render.Renderer = (*Renderer)(nil)
