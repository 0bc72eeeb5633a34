package events

import (
	"time"
)

// SessionEvent is published for every session lifecycle change so downstream
// consumers (analytics, notifications) can follow the quiz flow without
// touching the core.
type SessionEvent struct {
	ID        string                 `json:"id"`
	SessionID string                 `json:"session_id"`
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Source identifies this service in published events.
const Source = "quiz-service"
