package testutils

import (
	"context"
	"sync"

	"github.com/papercomputeco/resumini/pkg/eventstream"
)

// MockPublisher records published events.
type MockPublisher struct {
	mu sync.Mutex

	Err    error
	Events []*eventstream.ResumeStoredEvent
	Closed bool
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishResumeStored(_ context.Context, event *eventstream.ResumeStoredEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if event == nil {
		return eventstream.ErrNilEvent
	}
	if m.Err != nil {
		return m.Err
	}
	m.Events = append(m.Events, event)
	return nil
}

// Published returns a snapshot of the recorded events.
func (m *MockPublisher) Published() []*eventstream.ResumeStoredEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*eventstream.ResumeStoredEvent{}, m.Events...)
}

func (m *MockPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}
