package handler

import (
	"net/http"

	"github.com/KAFKA2306/chat-code-architect-ai2/internal/middleware"
)

// Register creates an account and issues a session cookie.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := h.DecodeJSON(r, &req); err != nil {
		h.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.authService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.ServiceError(w, err)
		return
	}

	h.setSessionCookie(w, token)
	h.JSON(w, http.StatusCreated, map[string]any{"user": user})
}

// Login verifies credentials and issues a session cookie. Bad credentials
// are a 400, and the existing session (if any) is left untouched.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := h.DecodeJSON(r, &req); err != nil {
		h.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.ServiceError(w, err)
		return
	}

	h.setSessionCookie(w, token)
	h.JSON(w, http.StatusOK, map[string]any{"user": user})
}

// Logout invalidates the session server-side and clears the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := h.getSessionToken(r); token != "" {
		if err := h.authService.DeleteSession(r.Context(), token); err != nil {
			h.log.Warn("failed to delete session", "error", err)
		}
	}
	h.clearSessionCookie(w)
	h.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// CurrentUser returns the authenticated caller's identity.
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		h.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	h.JSON(w, http.StatusOK, map[string]any{
		"userId":   user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}
