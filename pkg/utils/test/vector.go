package testutils

import (
	"context"
	"errors"
	"sync"

	"github.com/papercomputeco/resumini/pkg/vector"
)

// MockStore is a vector.Store that records calls and returns canned results.
type MockStore struct {
	mu sync.Mutex

	// Results is returned by Search, truncated to k.
	Results []vector.Result

	// Total is returned by Count and grows with each Add.
	Total int

	// AddErr, SearchErr and CountErr are returned by the matching method when set.
	AddErr    error
	SearchErr error
	CountErr  error

	Added    [][]string
	Searches int
	Closed   bool
}

func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Add(_ context.Context, vectors [][]float32, texts []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AddErr != nil {
		return m.Total, m.AddErr
	}
	if len(vectors) != len(texts) {
		return m.Total, vector.ErrLengthMismatch
	}
	m.Added = append(m.Added, texts)
	m.Total += len(texts)
	return m.Total, nil
}

func (m *MockStore) Search(_ context.Context, _ []float32, k int) ([]vector.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Searches++
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	if k <= 0 {
		return nil, vector.ErrInvalidK
	}
	if len(m.Results) < k {
		return m.Results, nil
	}
	return m.Results[:k], nil
}

func (m *MockStore) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	return m.Total, nil
}

func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Closed {
		return errors.New("mock store already closed")
	}
	m.Closed = true
	return nil
}
