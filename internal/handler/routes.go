package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/KAFKA2306/chat-code-architect-ai2/internal/logger"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/middleware"
)

// Routes assembles the full router: health, the websocket relay and the
// /api surface. The relay sits outside the timeout middleware because its
// connections are long-lived.
func (h *Handler) Routes(corsOrigins []string, log *logger.Logger) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimiddleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Real-time relay
	r.Get("/ws", h.Relay)

	r.Route("/api", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))

		// Auth routes (no session required)
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)

		// Session-gated routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(h.authService))

			r.Post("/logout", h.Logout)
			r.Get("/current-user", h.CurrentUser)

			r.Get("/projects", h.ListProjects)
			r.Post("/projects", h.CreateProject)
			r.Get("/projects/{projectId}", h.GetProject)
			r.Put("/projects/{projectId}", h.UpdateProject)
			r.Get("/projects/{projectId}/files", h.ListProjectFiles)
			r.Get("/projects/{projectId}/download", h.DownloadProject)

			r.Get("/chat-sessions", h.ListChatSessions)
			r.Post("/chat-sessions", h.CreateChatSession)
			r.Get("/chat-sessions/{sessionId}/messages", h.ListMessages)
			r.Post("/chat-sessions/{sessionId}/messages", h.CreateMessage)

			r.Post("/generate-code", h.GenerateCode)

			r.Get("/files/{fileId}", h.GetFile)
		})
	})

	return r
}
