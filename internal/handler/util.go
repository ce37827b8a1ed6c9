// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/capitalize-ai/assistant-chat/internal/llm"
	"github.com/capitalize-ai/assistant-chat/internal/model"
	"github.com/capitalize-ai/assistant-chat/internal/service"
)

const (
	msgAssistantNotFound = "Assistant not found"
	msgThreadNotFound    = "Thread not found"
	msgInvalidBody       = "invalid request body"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

// writeServiceError maps a service or upstream error onto the wire.
func writeServiceError(w http.ResponseWriter, err error) {
	var upErr *llm.UpstreamError
	switch {
	case errors.Is(err, service.ErrAssistantNotFound):
		writeError(w, http.StatusNotFound, msgAssistantNotFound)
	case errors.Is(err, service.ErrThreadNotFound):
		writeError(w, http.StatusNotFound, msgThreadNotFound)
	case errors.As(err, &upErr):
		writeError(w, upErr.HTTPStatus(), upErr.Message)
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeJSON decodes the request body into v. A missing body leaves v at
// its zero value so the existence checks decide the response.
func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
