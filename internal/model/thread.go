package model

import (
	"time"
)

// Thread is a conversation with one assistant.
type Thread struct {
	ID          string    `json:"id"`
	AssistantID string    `json:"assistant_id"`
	Messages    []Turn    `json:"messages"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateThreadRequest is the request to create a new thread.
type CreateThreadRequest struct {
	AssistantID string `json:"assistant_id"`
}

// CreateThreadResponse is the response after creating a thread.
type CreateThreadResponse struct {
	ThreadID string `json:"threadId"`
}
