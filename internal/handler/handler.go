// Package handler exposes the service layer as JSON endpoints plus the
// websocket relay.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/KAFKA2306/chat-code-architect-ai2/internal/apperr"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/logger"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/middleware"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/service"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/store"
)

// Handler contains all HTTP handlers
type Handler struct {
	store           *store.Store
	authService     *service.AuthService
	projectService  *service.ProjectService
	chatService     *service.ChatService
	generateService *service.GenerateService
	fileService     *service.FileService
	log             *logger.Logger
}

// New creates a new Handler over the given services.
func New(
	s *store.Store,
	authSvc *service.AuthService,
	projectSvc *service.ProjectService,
	chatSvc *service.ChatService,
	generateSvc *service.GenerateService,
	fileSvc *service.FileService,
	log *logger.Logger,
) *Handler {
	return &Handler{
		store:           s,
		authService:     authSvc,
		projectService:  projectSvc,
		chatService:     chatSvc,
		generateService: generateSvc,
		fileService:     fileSvc,
		log:             log,
	}
}

// JSON helper to write JSON responses
func (h *Handler) JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Error helper to write error responses
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}

// ServiceError maps a service-layer error onto its status code and
// structured body. Unexpected errors are logged and reported generically.
func (h *Handler) ServiceError(w http.ResponseWriter, err error) {
	status := apperr.Status(err)
	if errors.Is(err, apperr.ErrCollaboratorUnavailable) {
		h.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if status == http.StatusInternalServerError {
		h.log.Error("internal error", "error", err)
		h.Error(w, status, "Internal server error")
		return
	}
	h.Error(w, status, err.Error())
}

// DecodeJSON helper to decode request body
func (h *Handler) DecodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// setSessionCookie sets the session cookie
func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		SameSite: http.SameSiteLaxMode,
		MaxAge:   30 * 24 * 60 * 60,
	})
}

// clearSessionCookie clears the session cookie
func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// getSessionToken gets the session token from cookie
func (h *Handler) getSessionToken(r *http.Request) string {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
