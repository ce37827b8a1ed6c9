package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/capitalize-ai/assistant-chat/internal/middleware"
	"github.com/capitalize-ai/assistant-chat/internal/model"
	"github.com/capitalize-ai/assistant-chat/internal/service"
	"github.com/capitalize-ai/assistant-chat/pkg/logger"
)

// ThreadHandler handles thread endpoints.
type ThreadHandler struct {
	threads *service.ThreadStore
	gateway *service.CompletionGateway
	logger  *logger.Logger
}

// NewThreadHandler creates a new thread handler.
func NewThreadHandler(threads *service.ThreadStore, gateway *service.CompletionGateway, log *logger.Logger) *ThreadHandler {
	return &ThreadHandler{
		threads: threads,
		gateway: gateway,
		logger:  logger.OrGlobal(log),
	}
}

// Create handles POST /api/threads
func (h *ThreadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateThreadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	threadID, err := h.threads.Create(r.Context(), req.AssistantID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.CreateThreadResponse{ThreadID: threadID})
}

// AppendMessage handles POST /api/threads/{id}/messages
func (h *ThreadHandler) AppendMessage(w http.ResponseWriter, r *http.Request) {
	var req model.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	threadID := chi.URLParam(r, "id")
	if !h.threads.Exists(threadID) {
		writeServiceError(w, service.ErrThreadNotFound)
		return
	}

	if err := middleware.ValidateMessageContent(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.threads.AppendUserMessage(r.Context(), threadID, req.Message); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.SuccessResponse{Success: true})
}

// Run handles POST /api/threads/{id}/run
func (h *ThreadHandler) Run(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	threadID := chi.URLParam(r, "id")

	if err := h.gateway.Run(ctx, threadID); err != nil {
		h.logger.Warn("thread run failed",
			zap.String("thread_id", threadID),
			zap.String("correlation_id", middleware.GetCorrelationID(ctx)),
			zap.Error(err),
		)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.SuccessResponse{Success: true})
}

// ListMessages handles GET /api/threads/{id}/messages
func (h *ThreadHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	turns, err := h.threads.ListMessages(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ListMessagesResponse{Messages: turns})
}
