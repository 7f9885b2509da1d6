package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/resumini/pkg/ats"
	"github.com/papercomputeco/resumini/pkg/eventstream"
)

// OriginMCP marks resumes stored through the resume_store tool.
const OriginMCP = "mcp"

var (
	storeToolName    = "resume_store"
	storeDescription = "Store resume text in the knowledge base. The text is chunked, embedded and appended to the shared index so later resume_query calls can answer from it."

	queryToolName    = "resume_query"
	queryDescription = "Answer a question about the stored resumes using only the most relevant stored chunks."

	atsToolName    = "ats_report"
	atsDescription = "Score a resume with the heuristic ATS model (keywords, sections, length). When a job description is given, also returns AI feedback and a match score."

	summaryToolName    = "resume_summary"
	summaryDescription = "Summarize a resume for a recruiter."
)

// StoreInput represents the input arguments for the resume_store tool.
type StoreInput struct {
	Text string `json:"text" jsonschema:"the full resume text to store"`
}

// StoreOutput represents the output of the resume_store tool.
type StoreOutput struct {
	ChunksAdded  int `json:"chunks_added"`
	TotalVectors int `json:"total_vectors"`
}

// QueryInput represents the input arguments for the resume_query tool.
type QueryInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the stored resumes"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"number of chunks to retrieve (default: the server's retrieval.top_k)"`
}

// QueryOutput represents the output of the resume_query tool.
type QueryOutput struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ATSInput represents the input arguments for the ats_report tool.
type ATSInput struct {
	ResumeText     string `json:"resume_text" jsonschema:"the resume text to score"`
	Role           string `json:"role,omitempty" jsonschema:"the target role"`
	JobDescription string `json:"job_description,omitempty" jsonschema:"optional job description for AI feedback"`
}

// ATSOutput represents the output of the ats_report tool.
type ATSOutput struct {
	Report          ats.Report `json:"ats_report"`
	AIFeedback      string     `json:"ai_feedback,omitempty"`
	MatchScore      *int       `json:"match_score,omitempty"`
	AIFeedbackError string     `json:"ai_feedback_error,omitempty"`
}

// SummaryInput represents the input arguments for the resume_summary tool.
type SummaryInput struct {
	Text string `json:"text" jsonschema:"the resume text to summarize"`
}

// SummaryOutput represents the output of the resume_summary tool.
type SummaryOutput struct {
	Summary string `json:"summary"`
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(format, args...)},
		},
	}
}

// toolResult serializes output as JSON for the text field. Tools returning
// structured content should also return it in a TextContent block.
func toolResult[T any](output T) (*mcp.CallToolResult, T, error) {
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		var zero T
		return toolError("Failed to serialize results: %v", err), zero, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}

func (s *Server) handleStore(ctx context.Context, _ *mcp.CallToolRequest, input StoreInput) (*mcp.CallToolResult, StoreOutput, error) {
	result, err := s.config.Engine.Ingest(ctx, input.Text, eventstream.EventSource{Origin: OriginMCP})
	if err != nil {
		s.config.Logger.Warn("MCP resume store failed", "error", err)
		return toolError("Failed to store resume: %v", err), StoreOutput{}, nil
	}

	return toolResult(StoreOutput{
		ChunksAdded:  result.ChunksAdded,
		TotalVectors: result.TotalVectors,
	})
}

func (s *Server) handleQuery(ctx context.Context, _ *mcp.CallToolRequest, input QueryInput) (*mcp.CallToolResult, QueryOutput, error) {
	s.config.Logger.Debug("MCP resume query",
		"question", input.Question,
		"top_k", input.TopK,
	)

	// A non-positive top_k selects the engine's configured default.
	answer, err := s.config.Engine.Answer(ctx, input.Question, input.TopK, s.config.Generator)
	if err != nil {
		s.config.Logger.Warn("MCP resume query failed", "error", err)
		return toolError("Failed to answer question: %v", err), QueryOutput{}, nil
	}

	return toolResult(QueryOutput{Question: input.Question, Answer: answer})
}

func (s *Server) handleATSReport(ctx context.Context, _ *mcp.CallToolRequest, input ATSInput) (*mcp.CallToolResult, ATSOutput, error) {
	if input.ResumeText == "" {
		return toolError("resume_text is required"), ATSOutput{}, nil
	}

	output := ATSOutput{Report: s.config.Scorer.Score(input.ResumeText, input.Role)}

	if input.JobDescription != "" {
		fb, err := s.config.Tools.Feedback(ctx, input.ResumeText, input.JobDescription)
		if err != nil {
			output.AIFeedbackError = err.Error()
		} else {
			output.AIFeedback = fb.Report
			output.MatchScore = fb.Score
		}
	}

	return toolResult(output)
}

func (s *Server) handleSummary(ctx context.Context, _ *mcp.CallToolRequest, input SummaryInput) (*mcp.CallToolResult, SummaryOutput, error) {
	summary, err := s.config.Tools.Summarize(ctx, input.Text)
	if err != nil {
		return toolError("Failed to summarize resume: %v", err), SummaryOutput{}, nil
	}
	return toolResult(SummaryOutput{Summary: summary})
}
