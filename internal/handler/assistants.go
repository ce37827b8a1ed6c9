package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/capitalize-ai/assistant-chat/internal/model"
	"github.com/capitalize-ai/assistant-chat/internal/service"
)

// AssistantHandler handles assistant endpoints.
type AssistantHandler struct {
	registry *service.AssistantRegistry
}

// NewAssistantHandler creates a new assistant handler.
func NewAssistantHandler(registry *service.AssistantRegistry) *AssistantHandler {
	return &AssistantHandler{registry: registry}
}

// List handles GET /api/assistants
func (h *AssistantHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.ListAssistantsResponse{
		Assistants: h.registry.List(),
	})
}

// Get handles GET /api/assistants/{id}
func (h *AssistantHandler) Get(w http.ResponseWriter, r *http.Request) {
	assistant, err := h.registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.GetAssistantResponse{Assistant: assistant})
}
