package eventstream

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeResumeStored is emitted after a resume's chunks are indexed.
	EventTypeResumeStored = "resumini.resume.stored"
)

// ResumeStoredEvent is a transport-neutral event payload for an ingested resume.
type ResumeStoredEvent struct {
	SchemaVersion int         `json:"schema_version"`
	EventType     string      `json:"event_type"`
	EventID       string      `json:"event_id"`
	EmittedAt     time.Time   `json:"emitted_at"`
	Source        EventSource `json:"source"`
	Index         IndexMeta   `json:"index"`
}

// EventSource identifies how the resume entered the system.
type EventSource struct {
	// Origin is the ingest path, e.g. "upload/file", "upload/text", "inbox" or "mcp".
	Origin string `json:"origin"`

	// Filename is set for file based ingests.
	Filename string `json:"filename,omitempty"`

	// ContentType is the MIME type the file was decoded as.
	ContentType string `json:"content_type,omitempty"`
}

// IndexMeta captures what the ingest did to the vector store.
type IndexMeta struct {
	Words        int `json:"words"`
	ChunksAdded  int `json:"chunks_added"`
	TotalVectors int `json:"total_vectors"`
}

// NewResumeStoredEvent stamps a new event with an ID and emission time.
func NewResumeStoredEvent(source EventSource, index IndexMeta) *ResumeStoredEvent {
	return &ResumeStoredEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeResumeStored,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Source:        source,
		Index:         index,
	}
}
