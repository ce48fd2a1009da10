package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ignite/creative-analytics/internal/pkg/httputil"
)

// SetupRoutes configures all API routes.
func SetupRoutes(h *Handlers, health *HealthChecker, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if health != nil {
		r.Get("/health", health.HandleHealth)
		r.Get("/health/ready", health.HandleReadiness)
	} else {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			httputil.OK(w, map[string]string{"status": "healthy"})
		})
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/sync/local", h.SyncLocal)
		r.Get("/sync/runs", h.ListRuns)
		r.Post("/reconcile", h.Reconcile)

		r.Get("/unmapped-ads", h.ListUnmapped)
		r.Post("/unmapped-ads/override", h.UpsertOverride)

		r.Route("/overrides", func(r chi.Router) {
			r.Get("/", h.ListOverrides)
			r.Get("/{id}", h.GetOverride)
			r.Delete("/{id}", h.DeleteOverride)
		})

		r.Route("/metrics", func(r chi.Router) {
			r.Get("/overview", h.GetOverview)
			r.Get("/creatives", h.ListCreatives)
			r.Get("/creatives/{id}", h.GetCreative)
			r.Get("/analysis", h.GetAnalysis)
			r.Get("/filters", h.GetFilterOptions)
		})
	})

	return r
}
