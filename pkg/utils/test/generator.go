package testutils

import (
	"context"
	"sync"
)

// MockGenerator is a test generator that records prompts and returns a fixed
// response.
type MockGenerator struct {
	mu sync.Mutex

	// Response is returned for every prompt unless Responder is set.
	Response string

	// Responder computes the response from the prompt when set.
	Responder func(prompt string) string

	// Err is returned instead of a response when set.
	Err error

	// Block makes Generate wait for context cancellation.
	Block bool

	Prompts []string
}

func NewMockGenerator(response string) *MockGenerator {
	return &MockGenerator{Response: response}
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	block, err, responder, response := m.Block, m.Err, m.Responder, m.Response
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if err != nil {
		return "", err
	}
	if responder != nil {
		return responder(prompt), nil
	}
	return response, nil
}

// CallCount returns how many prompts were generated.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

// LastPrompt returns the most recent prompt, or "" if none.
func (m *MockGenerator) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Prompts) == 0 {
		return ""
	}
	return m.Prompts[len(m.Prompts)-1]
}
