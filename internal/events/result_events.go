package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the kinds of domain events the service emits
type EventType string

const (
	EventSubmissionStarted EventType = "submission.started"
	EventResultComputed    EventType = "result.computed"
)

const (
	eventSource  = "mindcanvas-service"
	eventVersion = "1.0"
)

// Event is the envelope shared by every published event
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type SubmissionStartedEvent struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	TestID       uint      `json:"test_id"`
	Email        string    `json:"email,omitempty"`
}

type ResultComputedEvent struct {
	SubmissionID uuid.UUID      `json:"submission_id"`
	TestID       uint           `json:"test_id"`
	ProfileCode  string         `json:"profile_code"`
	FlowPercent  map[string]int `json:"flow_percent"`
	Fallback     string         `json:"fallback"`
	Rescored     bool           `json:"rescored"`
	ComputedAt   time.Time      `json:"computed_at"`
}

func newEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

func NewSubmissionStartedEvent(data SubmissionStartedEvent) *Event {
	return newEvent(EventSubmissionStarted, data)
}

func NewResultComputedEvent(data ResultComputedEvent) *Event {
	return newEvent(EventResultComputed, data)
}
