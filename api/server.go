/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     zap request logging (RequestLogger)
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for frontend
  5. RateLimit:  Per-client token bucket on /api (optional)

ROUTE GROUPS:
  /api/loans/*          Compute, export and saved loans
  /api/presets/*        Demo presets
  /api/health           Liveness

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterOptions configures the middleware around the handlers.
type RouterOptions struct {
	Logger         *zap.Logger
	AllowedOrigins []string

	// Limiter is optional; nil disables rate limiting.
	Limiter *RateLimiter
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Cache", "Retry-After"},
		AllowCredentials: false,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(opts.Limiter.Middleware)
		}

		r.Get("/health", h.Health)

		// Loan routes
		r.Route("/loans", func(r chi.Router) {
			r.Post("/calculate", h.Calculate)
			r.Post("/scenario", h.Scenario)
			r.Post("/compare", h.Compare)
			r.Post("/export", h.Export)

			r.Route("/saved", func(r chi.Router) {
				r.Get("/", h.ListSavedLoans)
				r.Post("/", h.CreateSavedLoan)
				r.Get("/{id}", h.GetSavedLoan)
				r.Delete("/{id}", h.DeleteSavedLoan)
				r.Post("/{id}/calculate", h.CalculateSavedLoan)
			})
		})

		// Preset routes
		r.Route("/presets", func(r chi.Router) {
			r.Get("/", h.ListPresets)
			r.Get("/current", h.GetCurrentPreset)
			r.Post("/load", h.LoadPreset)
			r.Post("/reset", h.ResetPresets)
		})
	})

	return r
}
