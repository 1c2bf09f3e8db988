package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Strob0t/RoamGuide/internal/middleware"
)

// MountRoutes registers all API routes on the given chi router. wsHandler
// serves the event hub upgrade; pass nil to skip mounting /ws.
func MountRoutes(r chi.Router, h *Handlers, wsHandler http.HandlerFunc) {
	r.Get("/health", h.HandleHealth)

	if wsHandler != nil {
		r.Get("/ws", wsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"version":"0.1.0"}`))
		})

		r.Post("/chat", h.HandleChat)

		// Development-only session inspector.
		r.Route("/dev/sessions", func(r chi.Router) {
			r.Use(middleware.DevModeOnly)
			r.Get("/", h.HandleListSessions)
			r.Get("/{id}", h.HandleGetSession)
		})
	})
}
