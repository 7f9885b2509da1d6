// Package tools holds the generator-backed resume tools: summary, AI feedback,
// optimization and LaTeX preview. Each tool makes exactly one generator call.
package tools

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/papercomputeco/resumini/pkg/artifact"
	"github.com/papercomputeco/resumini/pkg/ats"
	"github.com/papercomputeco/resumini/pkg/extract"
	"github.com/papercomputeco/resumini/pkg/generator"
	"github.com/papercomputeco/resumini/pkg/logger"
	"github.com/papercomputeco/resumini/pkg/render"
)

// ErrEmptyInput is returned when a tool is called without resume text.
var ErrEmptyInput = errors.New("resume text is required")

type Config struct {
	Generator generator.Generator

	// LatexRenderer compiles LaTeX previews. Nil skips PDF rendering.
	LatexRenderer render.Renderer

	// DocRenderer writes optimized resumes. Nil skips the document.
	DocRenderer render.Renderer

	// Artifacts receives rendered documents. Nil keeps them in memory only.
	Artifacts artifact.Store

	Logger *slog.Logger
}

type Toolkit struct {
	gen       generator.Generator
	latex     render.Renderer
	docs      render.Renderer
	artifacts artifact.Store
	logger    *slog.Logger
}

func New(c Config) *Toolkit {
	l := c.Logger
	if l == nil {
		l = logger.Nop()
	}
	return &Toolkit{
		gen:       c.Generator,
		latex:     c.LatexRenderer,
		docs:      c.DocRenderer,
		artifacts: c.Artifacts,
		logger:    l,
	}
}

// Feedback is the AI match report for a resume against a job description.
type Feedback struct {
	Report string `json:"report"`
	Score  *int   `json:"score"`
}

// Optimization is a rewritten resume and, when rendering succeeded, the stored
// document.
type Optimization struct {
	Content     string        `json:"optimized_content"`
	Document    []byte        `json:"-"`
	Artifact    *artifact.Ref `json:"artifact,omitempty"`
	RenderError string        `json:"render_error,omitempty"`
}

// LatexPreview is the generated LaTeX and its compiled PDF. PDFBase64 is nil
// when the PDF could not be produced.
type LatexPreview struct {
	Source      string        `json:"latex_source"`
	PDFBase64   *string       `json:"pdf_base64"`
	HTMLPreview string        `json:"html_preview"`
	Artifact    *artifact.Ref `json:"artifact,omitempty"`
	RenderError string        `json:"render_error,omitempty"`
}

func (t *Toolkit) generate(ctx context.Context, tool, prompt string) (string, error) {
	if t.gen == nil {
		return "", generator.ErrNotConfigured
	}
	out, err := t.gen.Generate(ctx, prompt)
	if err != nil {
		t.logger.Error("generator call failed", "tool", tool, "error", err)
		return "", generator.Wrap(err)
	}
	return strings.TrimSpace(out), nil
}

// Summarize returns a recruiter-facing summary of resume.
func (t *Toolkit) Summarize(ctx context.Context, resume string) (string, error) {
	if strings.TrimSpace(resume) == "" {
		return "", ErrEmptyInput
	}
	return t.generate(ctx, "summary", buildSummaryPrompt(resume))
}

// Feedback asks the generator to grade resume against jobDescription. A
// response without a score line yields a nil Score rather than an error.
func (t *Toolkit) Feedback(ctx context.Context, resume, jobDescription string) (*Feedback, error) {
	if strings.TrimSpace(resume) == "" {
		return nil, ErrEmptyInput
	}
	report, err := t.generate(ctx, "feedback", buildFeedbackPrompt(resume, jobDescription))
	if err != nil {
		return nil, err
	}

	fb := &Feedback{Report: report, Score: ats.ParseScorePtr(report)}
	if fb.Score == nil {
		t.logger.Warn("feedback had no match score")
	}
	return fb, nil
}

// Optimize rewrites resume for role and renders the result to a document.
// Rendering or storage failures are reported in RenderError.
func (t *Toolkit) Optimize(ctx context.Context, resume, role string) (*Optimization, error) {
	if strings.TrimSpace(resume) == "" {
		return nil, ErrEmptyInput
	}
	content, err := t.generate(ctx, "optimize", buildOptimizePrompt(resume, role))
	if err != nil {
		return nil, err
	}

	result := &Optimization{Content: content}
	if t.docs == nil {
		return result, nil
	}

	renderer := t.docs
	if titled, ok := renderer.(render.Titled); ok {
		renderer = titled.WithTitle(OptimizedTitle(role))
	}

	doc, err := renderer.Render(ctx, content)
	if err != nil {
		t.logger.Warn("optimized resume not rendered", "role", role, "error", err)
		result.RenderError = err.Error()
		return result, nil
	}
	result.Document = doc

	ref, err := t.store(ctx, "optimized", "docx", doc, extract.MimeDOCX)
	if err != nil {
		result.RenderError = err.Error()
		return result, nil
	}
	result.Artifact = ref
	return result, nil
}

// LatexPreview has the generator write a LaTeX resume, wraps it with
// FallbackLatexShell when needed and compiles it. A missing or failing
// compiler leaves PDFBase64 nil.
func (t *Toolkit) LatexPreview(ctx context.Context, resume, role string) (*LatexPreview, error) {
	if strings.TrimSpace(resume) == "" {
		return nil, ErrEmptyInput
	}
	out, err := t.generate(ctx, "latex", buildLatexPrompt(resume, role))
	if err != nil {
		return nil, err
	}

	preview := &LatexPreview{Source: EnsureLatexDocument(out)}
	defer func() {
		preview.HTMLPreview = PreviewHTML(role, preview.PDFBase64)
	}()

	if t.latex == nil {
		preview.RenderError = fmt.Sprintf("%v: %v", render.ErrRenderFailure, render.ErrToolchainMissing)
		return preview, nil
	}

	pdf, err := t.latex.Render(ctx, preview.Source)
	if err != nil {
		if errors.Is(err, render.ErrToolchainMissing) {
			t.logger.Debug("latex toolchain missing, skipping pdf", "error", err)
		} else {
			t.logger.Warn("latex preview not rendered", "role", role, "error", err)
		}
		preview.RenderError = err.Error()
		return preview, nil
	}

	encoded := base64.StdEncoding.EncodeToString(pdf)
	preview.PDFBase64 = &encoded

	if ref, err := t.store(ctx, "previews", "pdf", pdf, extract.MimePDF); err == nil {
		preview.Artifact = ref
	}
	return preview, nil
}

func (t *Toolkit) store(ctx context.Context, prefix, ext string, data []byte, contentType string) (*artifact.Ref, error) {
	if t.artifacts == nil {
		return nil, nil
	}
	ref, err := t.artifacts.Put(ctx, artifact.NewKey(prefix, ext), data, contentType)
	if err != nil {
		t.logger.Warn("artifact not stored", "prefix", prefix, "error", err)
		return nil, err
	}
	t.logger.Info("stored artifact", "key", ref.Key, "location", ref.Location)
	return ref, nil
}
