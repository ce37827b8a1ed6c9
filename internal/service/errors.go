// Package service provides business logic for the assistant chat service.
package service

import "errors"

var (
	// ErrAssistantNotFound is returned for unknown assistant identifiers.
	ErrAssistantNotFound = errors.New("assistant not found")
	// ErrThreadNotFound is returned for unknown or evicted thread identifiers.
	ErrThreadNotFound = errors.New("thread not found")
)
