// Package eventstream publishes resume lifecycle events to external brokers
// so downstream consumers can react to new resumes.
package eventstream

import "context"

// Publisher publishes resume events to an event stream backend.
type Publisher interface {
	PublishResumeStored(ctx context.Context, event *ResumeStoredEvent) error
	Close() error
}
