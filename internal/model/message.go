package model

// Role represents the role of a turn's author.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single entry in a thread's conversation history.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SendMessageRequest is the request to append a user message to a thread.
type SendMessageRequest struct {
	Message string `json:"message"`
}

// ListMessagesResponse is the response for listing a thread's turns.
type ListMessagesResponse struct {
	Messages []Turn `json:"messages"`
}

// SuccessResponse acknowledges a mutation.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
