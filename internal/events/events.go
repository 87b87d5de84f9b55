package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	eventSource  = "practice-service"
	eventVersion = "1.0"
)

// EventType represents the kinds of domain events the service emits
type EventType string

const (
	EventSubmissionGraded EventType = "submission.graded"

	EventQuestionCreated EventType = "question.created"
	EventQuestionUpdated EventType = "question.updated"
	EventQuestionDeleted EventType = "question.deleted"
)

// Event is the envelope shared by all published events
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type SubmissionGradedEvent struct {
	SubmissionID uint      `json:"submission_id"`
	UserID       string    `json:"user_id"`
	QuestionID   uint      `json:"question_id"`
	Topic        string    `json:"topic"`
	IsCorrect    bool      `json:"is_correct"`
	TimeSpent    *int      `json:"time_spent,omitempty"`
	GradedAt     time.Time `json:"graded_at"`
}

type QuestionChangedEvent struct {
	QuestionID uint   `json:"question_id"`
	Topic      string `json:"topic,omitempty"`
	Type       string `json:"type,omitempty"`
	ChangedBy  string `json:"changed_by,omitempty"`
}

// NewEvent wraps data in an envelope with a fresh id and timestamp.
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

func NewSubmissionGradedEvent(data SubmissionGradedEvent) *Event {
	return NewEvent(EventSubmissionGraded, data)
}

func NewQuestionChangedEvent(eventType EventType, data QuestionChangedEvent) *Event {
	return NewEvent(eventType, data)
}
