package middleware

import (
	"errors"
)

// MaxMessageBytes bounds a single user message.
const MaxMessageBytes = 100000

// ValidateMessageContent validates message content. Empty content is
// allowed and stored as sent.
func ValidateMessageContent(content string) error {
	if len(content) > MaxMessageBytes {
		return errors.New("message exceeds maximum length")
	}
	return nil
}
