package api

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/resumini/pkg/chunker"
	"github.com/papercomputeco/resumini/pkg/extract"
	"github.com/papercomputeco/resumini/pkg/generator"
	"github.com/papercomputeco/resumini/pkg/jobs"
	"github.com/papercomputeco/resumini/pkg/rag"
	"github.com/papercomputeco/resumini/pkg/tools"
	"github.com/papercomputeco/resumini/pkg/vector"
)

// errBadRequest marks malformed request bodies and missing fields.
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// statusFor maps an error onto an HTTP status. Input problems are 400s,
// missing collaborators are 503s and everything else is a 500.
func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, errBadRequest),
		errors.Is(err, extract.ErrNotFound),
		errors.Is(err, extract.ErrParseFailure),
		errors.Is(err, vector.ErrNotReady),
		errors.Is(err, vector.ErrInvalidK),
		errors.Is(err, rag.ErrEmptyDocument),
		errors.Is(err, rag.ErrEmptyQuestion),
		errors.Is(err, tools.ErrEmptyInput),
		errors.Is(err, chunker.ErrInvalidWindow):
		return fiber.StatusBadRequest
	case errors.Is(err, generator.ErrNotConfigured),
		errors.Is(err, jobs.ErrNotConfigured):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// handleError is the fiber ErrorHandler. Handlers return errors and this
// renders them as the error envelope.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"status", code,
			"error", err,
		)
	} else {
		s.logger.Debug("request rejected",
			"method", c.Method(),
			"path", c.Path(),
			"status", code,
			"error", err,
		)
	}

	return c.Status(code).JSON(ErrorResponse{
		Status: "error",
		Error:  err.Error(),
	})
}
