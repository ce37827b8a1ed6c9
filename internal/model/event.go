package model

import (
	"time"
)

// EventType represents the type of thread lifecycle event.
type EventType string

const (
	EventTypeThreadCreated   EventType = "thread.created"
	EventTypeMessageAppended EventType = "message.appended"
	EventTypeRunCompleted    EventType = "run.completed"
	EventTypeRunFailed       EventType = "run.failed"
)

// ThreadEvent describes something that happened to a thread.
type ThreadEvent struct {
	ID          string         `json:"id"`
	ThreadID    string         `json:"thread_id"`
	AssistantID string         `json:"assistant_id,omitempty"`
	Type        EventType      `json:"type"`
	Role        Role           `json:"role,omitempty"`
	Reason      string         `json:"reason,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
