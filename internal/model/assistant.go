// Package model defines data structures for the assistant chat service.
package model

// Assistant is a fixed persona with a system prompt built at startup.
type Assistant struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SystemPrompt string `json:"systemPrompt"`
}

// ListAssistantsResponse is the response for listing assistants.
type ListAssistantsResponse struct {
	Assistants []Assistant `json:"assistants"`
}

// GetAssistantResponse is the response for fetching a single assistant.
type GetAssistantResponse struct {
	Assistant Assistant `json:"assistant"`
}
