/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:     Unique ID per request for tracing
  2. RequestLogger: Structured request logging (logrus)
  3. Recoverer:     Panic recovery (500 instead of crash)
  4. CORS:          Cross-origin requests for the frontend

SECURITY NOTE:
  No authentication middleware here; user identity arrives via the URL
  and session handling belongs to the surrounding service.

SEE ALSO:
  - handlers.go: Handler implementations
  - middleware.go: Request logging
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, log *logrus.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/users/{user}", func(r chi.Router) {
			r.Route("/entries", func(r chi.Router) {
				r.Get("/", h.ListEntries)
				r.Post("/", h.CreateEntry)
				r.Delete("/{id}", h.DeleteEntry)
			})

			r.Route("/cards", func(r chi.Router) {
				r.Get("/", h.ListCardConfigs)
				r.Put("/{card}", h.SetCardConfig)
			})

			r.Get("/periods", h.ListPeriods)
			r.Get("/optimization", h.GetOptimization)
			r.Get("/report", h.GetReport)
			r.Get("/export", h.ExportCSV)
		})

		// Read-only reference data
		r.Get("/rules", h.ListRules)
		r.Get("/categories", h.ListCategories)
	})

	return r
}
