/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions. This
  is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. zerolog:    Structured request logging
  4. CORS:       Cross-origin requests for the planner frontend

SECURITY NOTE:
  Authentication and rate limiting live in the external gateway; every
  endpoint here is unauthenticated by design.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		// Planning routes
		r.Route("/planning", func(r chi.Router) {
			r.Get("/weeks/{week}", h.GetWeek)
			r.Route("/{date}", func(r chi.Router) {
				r.Get("/", h.GetCommitted)
				r.Get("/state", h.GetDayState)
				r.Post("/commit", h.Commit)
				r.Route("/draft", func(r chi.Router) {
					r.Post("/", h.OpenDraft)
					r.Get("/", h.GetDraft)
					r.Delete("/", h.DiscardDraft)
					r.Post("/teams", h.AddTeam)
					r.Route("/teams/{teamIdx}", func(r chi.Router) {
						r.Patch("/", h.PatchTeam)
						r.Delete("/", h.RemoveTeam)
						r.Post("/rows", h.AddRow)
						r.Patch("/rows/{rowIdx}", h.PatchRow)
						r.Delete("/rows/{rowIdx}", h.RemoveRow)
					})
				})
			})
		})

		// History routes
		r.Route("/history", func(r chi.Router) {
			r.Delete("/", h.WipeHistory)
			r.Get("/{recruiterId}", h.GetHistory)
		})

		// Pay routes
		r.Get("/pay/{recruiterId}/{month}", h.GetPay)

		// Recruiter routes
		r.Route("/recruiters", func(r chi.Router) {
			r.Get("/", h.ListRecruiters)
			r.Post("/", h.CreateRecruiter)
			r.Put("/{id}", h.UpdateRecruiter)
		})

		// Settings routes
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.GetSettings)
			r.Post("/reload", h.ReloadSettings)
		})
	})

	return r
}

// requestLogger logs each request through zerolog.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
