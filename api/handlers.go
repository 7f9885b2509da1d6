package api

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/resumini/pkg/ats"
	"github.com/papercomputeco/resumini/pkg/eventstream"
	"github.com/papercomputeco/resumini/pkg/extract"
	"github.com/papercomputeco/resumini/pkg/jobs"
	"github.com/papercomputeco/resumini/pkg/rag"
	"github.com/papercomputeco/resumini/pkg/tools"
	"github.com/papercomputeco/resumini/pkg/utils"
)

const (
	statusSuccess = "success"

	originUploadFile = "upload/file"
	originUploadText = "upload/text"
)

// TextRequest is the body of the text based tool endpoints.
type TextRequest struct {
	Text string `json:"text"`
	Role string `json:"role,omitempty"`
}

// ATSRequest is the body of /analyze/ats.
type ATSRequest struct {
	ResumeText     string `json:"resume_text"`
	Role           string `json:"role"`
	JobDescription string `json:"job_description,omitempty"`
}

// ChatRequest is the body of /chat.
type ChatRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

// JobsRequest is the body of /jobs.
type JobsRequest struct {
	Role     string `json:"role"`
	Location string `json:"location,omitempty"`
}

// UploadResponse reports what an upload did to the store.
type UploadResponse struct {
	Status        string            `json:"status"`
	ExtractedText string            `json:"extracted_text,omitempty"`
	RAGStatus     *rag.IngestResult `json:"rag_status"`
	Message       string            `json:"message"`
}

// ReportResponse carries generated text.
type ReportResponse struct {
	Status string `json:"status"`
	Report string `json:"report"`
}

type StatsResponse struct {
	Status       string `json:"status"`
	TotalVectors int    `json:"total_vectors"`
}

// ATSResponse is the heuristic report plus optional AI feedback. AIFeedback
// and MatchScore are null when no job description was sent or the generator
// failed; in the latter case AIFeedbackError says why.
type ATSResponse struct {
	Status          string     `json:"status"`
	Role            string     `json:"role"`
	ATSReport       ats.Report `json:"ats_report"`
	AIFeedback      *string    `json:"ai_feedback"`
	MatchScore      *int       `json:"match_score"`
	AIFeedbackError string     `json:"ai_feedback_error,omitempty"`
}

type OptimizeResponse struct {
	Status string `json:"status"`
	tools.Optimization
}

type LatexPreviewResponse struct {
	Status string `json:"status"`
	tools.LatexPreview
}

type JobsResponse struct {
	Status string         `json:"status"`
	Jobs   []jobs.Listing `json:"jobs"`
}

// handleRoot returns the service banner.
func (s *Server) handleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  statusSuccess,
		"message": "Resumini API is running",
	})
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  statusSuccess,
		"message": "pong",
	})
}

// handleStats returns the number of indexed chunks.
func (s *Server) handleStats(c *fiber.Ctx) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	total, err := s.config.Engine.Count(ctx)
	if err != nil {
		return err
	}
	return c.JSON(StatsResponse{Status: statusSuccess, TotalVectors: total})
}

// handleUploadFile extracts text from the multipart "file" field and indexes it.
func (s *Server) handleUploadFile(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return badRequest("multipart field %q is required", "file")
	}

	f, err := header.Open()
	if err != nil {
		return badRequest("reading upload: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return badRequest("reading upload: %v", err)
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	text, err := s.config.Extractor.Extract(ctx, header.Filename, data)
	if err != nil {
		return err
	}

	result, err := s.config.Engine.Ingest(ctx, text, eventstream.EventSource{
		Origin:      originUploadFile,
		Filename:    header.Filename,
		ContentType: extract.MimeType(header.Filename),
	})
	if err != nil {
		return err
	}

	s.logger.Info("resume uploaded",
		"filename", header.Filename,
		"bytes", len(data),
		"chunks_added", result.ChunksAdded,
	)

	return c.JSON(UploadResponse{
		Status:        statusSuccess,
		ExtractedText: utils.Truncate(text, uploadPreviewChars),
		RAGStatus:     result,
		Message:       "Resume processed and stored in memory.",
	})
}

// handleUploadText indexes raw resume text.
func (s *Server) handleUploadText(c *fiber.Ctx) error {
	var req TextRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body: %v", err)
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	result, err := s.config.Engine.Ingest(ctx, req.Text, eventstream.EventSource{Origin: originUploadText})
	if err != nil {
		return err
	}

	return c.JSON(UploadResponse{
		Status:    statusSuccess,
		RAGStatus: result,
		Message:   "Resume text stored in memory.",
	})
}

func (s *Server) handleSummary(c *fiber.Ctx) error {
	var req TextRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body: %v", err)
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	summary, err := s.config.Tools.Summarize(ctx, req.Text)
	if err != nil {
		return err
	}
	return c.JSON(ReportResponse{Status: statusSuccess, Report: summary})
}

// handleATS scores the resume heuristically and, when a job description is
// present, asks the generator for feedback. A generator failure only drops
// the feedback.
func (s *Server) handleATS(c *fiber.Ctx) error {
	var req ATSRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	if strings.TrimSpace(req.ResumeText) == "" {
		return badRequest("resume_text is required")
	}

	resp := ATSResponse{
		Status:    statusSuccess,
		Role:      req.Role,
		ATSReport: s.config.Scorer.Score(req.ResumeText, req.Role),
	}

	if strings.TrimSpace(req.JobDescription) != "" {
		ctx, cancel := s.requestContext(c)
		defer cancel()

		fb, err := s.config.Tools.Feedback(ctx, req.ResumeText, req.JobDescription)
		if err != nil {
			s.logger.Warn("ai feedback unavailable", "role", req.Role, "error", err)
			resp.AIFeedbackError = err.Error()
		} else {
			resp.AIFeedback = &fb.Report
			resp.MatchScore = fb.Score
		}
	}

	return c.JSON(resp)
}

func (s *Server) handleOptimize(c *fiber.Ctx) error {
	var req TextRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body: %v", err)
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	result, err := s.config.Tools.Optimize(ctx, req.Text, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(OptimizeResponse{Status: statusSuccess, Optimization: *result})
}

// handleChat answers a question from the stored resume chunks.
func (s *Server) handleChat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	if req.TopK < 0 {
		return badRequest("top_k must not be negative")
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	answer, err := s.config.Engine.Answer(ctx, req.Query, req.TopK, s.config.Generator)
	if err != nil {
		return err
	}
	return c.JSON(ReportResponse{Status: statusSuccess, Report: answer})
}

func (s *Server) handleJobs(c *fiber.Ctx) error {
	if s.config.Jobs == nil {
		return jobs.ErrNotConfigured
	}

	var req JobsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	if strings.TrimSpace(req.Role) == "" {
		return badRequest("role is required")
	}
	if req.Location == "" {
		req.Location = jobs.DefaultLocation
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	listings, err := s.config.Jobs.Search(ctx, req.Role, req.Location)
	if err != nil {
		return err
	}
	if listings == nil {
		listings = []jobs.Listing{}
	}
	return c.JSON(JobsResponse{Status: statusSuccess, Jobs: listings})
}

func (s *Server) handleLatexPreview(c *fiber.Ctx) error {
	var req TextRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body: %v", err)
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	preview, err := s.config.Tools.LatexPreview(ctx, req.Text, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(LatexPreviewResponse{Status: statusSuccess, LatexPreview: *preview})
}
