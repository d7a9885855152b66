package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docuchat/internal/auth"
	"docuchat/internal/handlers"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Chat      *handlers.ChatHandler
	Documents *handlers.DocumentsHandler
	Health    *handlers.HealthHandler
	Identity  *auth.Middleware
	Logger    *slog.Logger
}

// NewRouter creates the HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORS)
	r.Use(deps.Identity.Identify)

	r.Method(http.MethodGet, "/health", deps.Health)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/chat", deps.Chat)
		r.Get("/documents", deps.Documents.List)
		r.Post("/documents/upload", deps.Documents.Upload)
		r.Delete("/documents/{id}", deps.Documents.Delete)
	})

	return r
}
