package testutils

import (
	"context"
	"sync"

	"github.com/papercomputeco/resumini/pkg/render"
)

// MockRenderer is a test renderer that returns fixed bytes or an error.
type MockRenderer struct {
	mu sync.Mutex

	Output []byte
	Err    error

	Sources []string

	// Titles records every WithTitle call.
	Titles []string
}

func NewMockRenderer(output []byte) *MockRenderer {
	return &MockRenderer{Output: output}
}

func (m *MockRenderer) Render(_ context.Context, source string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sources = append(m.Sources, source)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Output, nil
}

// WithTitle records title and returns m, so titled and untitled renders share
// the recorded sources.
func (m *MockRenderer) WithTitle(title string) render.Renderer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Titles = append(m.Titles, title)
	return m
}
