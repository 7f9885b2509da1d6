// Package generator defines the text generation collaborator (an LLM) used by
// retrieval answers and the resume tools.
package generator

import (
	"context"
	"fmt"
	"time"
)

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Func adapts a plain function to Generator.
type Func func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f Func) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Retrying retries transient generator failures with linear backoff.
type Retrying struct {
	next     Generator
	attempts int
	backoff  time.Duration
}

// WithRetry wraps g so that each Generate makes up to attempts calls, waiting
// backoff*n between attempt n and n+1. Context cancellation stops retrying.
func WithRetry(g Generator, attempts int, backoff time.Duration) Generator {
	if attempts <= 1 {
		return g
	}
	return &Retrying{next: g, attempts: attempts, backoff: backoff}
}

// Generate calls the wrapped generator until it succeeds or attempts run out.
func (r *Retrying) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for i := range r.attempts {
		out, err := r.next.Generate(ctx, prompt)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if i == r.attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(r.backoff * time.Duration(i+1)):
		}
	}
	return "", fmt.Errorf("after %d attempts: %w", r.attempts, lastErr)
}
