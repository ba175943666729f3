package handler

import (
	"encoding/json"
	"net/http"

	"github.com/KAFKA2306/chat-code-architect-ai2/internal/middleware"
)

// ListChatSessions returns the current user's chat sessions
func (h *Handler) ListChatSessions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	sessions, err := h.chatService.ListSessions(r.Context(), userID)
	if err != nil {
		h.ServiceError(w, err)
		return
	}
	h.JSON(w, http.StatusOK, sessions)
}

// CreateChatSession creates a new chat session, optionally bound to a
// project the user owns
func (h *Handler) CreateChatSession(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		Title     string `json:"title"`
		ProjectID *uint  `json:"projectId"`
	}
	if err := h.DecodeJSON(r, &req); err != nil {
		h.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.chatService.CreateSession(r.Context(), userID, req.Title, req.ProjectID)
	if err != nil {
		h.ServiceError(w, err)
		return
	}
	h.JSON(w, http.StatusCreated, session)
}

// ListMessages returns a session's messages in creation order
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	sessionID, ok := parseID(r, "sessionId")
	if !ok {
		h.Error(w, http.StatusNotFound, "Chat session not found")
		return
	}

	messages, err := h.chatService.ListMessages(r.Context(), userID, sessionID)
	if err != nil {
		h.ServiceError(w, err)
		return
	}
	h.JSON(w, http.StatusOK, messages)
}

// CreateMessage posts a message to a session. For user messages the
// assistant reply is generated synchronously; a collaborator failure still
// returns the persisted user message with an error flag.
func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	sessionID, ok := parseID(r, "sessionId")
	if !ok {
		h.Error(w, http.StatusNotFound, "Chat session not found")
		return
	}

	var req struct {
		Type     string          `json:"type"`
		Content  string          `json:"content"`
		Metadata json.RawMessage `json:"metadata"`
	}
	if err := h.DecodeJSON(r, &req); err != nil {
		h.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.chatService.PostMessage(r.Context(), userID, sessionID, req.Type, req.Content, req.Metadata)
	if err != nil {
		h.ServiceError(w, err)
		return
	}
	h.JSON(w, http.StatusCreated, result)
}
