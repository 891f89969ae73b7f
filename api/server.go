/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for internal dashboards

ROUTE GROUPS:
  /api/quote            Price a set of enrollments (no payment)
  /api/reconcile        Reconcile one payment
  /api/reconcile/batch  Reconcile many payments over the worker pool
  /api/catalog          Catalog inspection
  /api/runs             Persisted run summaries

SECURITY NOTE:
  No authentication middleware. Role checking is an external
  collaborator; this service is meant to run behind it.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/quote", h.Quote)

		r.Route("/reconcile", func(r chi.Router) {
			r.Post("/", h.Reconcile)
			r.Post("/batch", h.ReconcileBatch)
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/scopes", h.ListCatalogScopes)
		})

		r.Route("/runs", func(r chi.Router) {
			r.Get("/", h.ListRuns)
			r.Get("/{id}/summary", h.GetRunSummary)
		})
	})

	return r
}
