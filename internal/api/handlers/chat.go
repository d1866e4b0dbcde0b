package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mvfreire/finsights/internal/api/middleware"
	"github.com/mvfreire/finsights/internal/chat"
	"github.com/mvfreire/finsights/internal/logger"
)

// ChatHandler exposes the financial chat assistant.
type ChatHandler struct {
	assistant *chat.Assistant // nil when the model is unavailable
}

// NewChatHandler creates the handler. assistant may be nil.
func NewChatHandler(assistant *chat.Assistant) *ChatHandler {
	return &ChatHandler{assistant: assistant}
}

// Send handles POST /api/chat.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	if h.assistant == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "Chat assistant is not configured")
		return
	}

	var req struct {
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Message == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Message is required")
		return
	}

	reply, sessionID, err := h.assistant.Send(r.Context(), req.SessionID, req.Message)
	if err != nil {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("Chat request failed")
		middleware.WriteError(w, http.StatusBadGateway, "Nao consegui processar sua mensagem no momento")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"session_id": sessionID,
		"reply":      reply,
	})
}

// Clear handles DELETE /api/chat/{sessionID}.
func (h *ChatHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if h.assistant == nil {
		middleware.WriteError(w, http.StatusServiceUnavailable, "Chat assistant is not configured")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	if !h.assistant.ClearSession(sessionID) {
		middleware.WriteError(w, http.StatusNotFound, "Session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
