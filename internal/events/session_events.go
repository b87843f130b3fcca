package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies a session lifecycle event.
type EventType string

const (
	// EventExtractionCompleted fires when a PDF has been turned into quiz
	// data and the session enters the quiz phase.
	EventExtractionCompleted EventType = "session.extracted"
	// EventSessionSubmitted fires when the user submits and a report is
	// built.
	EventSessionSubmitted EventType = "session.submitted"
	// EventSessionReset fires on retry, when all session state is dropped.
	EventSessionReset EventType = "session.reset"
)

// SessionEvent is the payload published on the session events topic.
type SessionEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`

	// Extraction fields
	Title         string `json:"title,omitempty"`
	QuestionCount int    `json:"question_count,omitempty"`
	PageCount     int    `json:"page_count,omitempty"`

	// Submission fields
	CorrectCount   int `json:"correct_count,omitempty"`
	IncorrectCount int `json:"incorrect_count,omitempty"`
	SkippedCount   int `json:"skipped_count,omitempty"`
	Percentage     int `json:"percentage,omitempty"`
	ElapsedSeconds int `json:"elapsed_seconds,omitempty"`
}

// NewSessionEvent creates an event with a fresh id and timestamp.
func NewSessionEvent(eventType EventType, sessionID string) *SessionEvent {
	return &SessionEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
	}
}
