package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MoniqueMiko/watch-auth-microservice/backend/internal/setup"
	mw "github.com/MoniqueMiko/watch-auth-microservice/shared/middleware"
	"github.com/MoniqueMiko/watch-auth-microservice/shared/middleware/metrics"
)

// New builds the HTTP surface: one POST route per message pattern plus
// probes and metrics.
func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.Config.Public.Http.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))
	r.Use(mw.SecurityHeadersWithCSP(deps.Config.Public.Http.Https, mw.APIContentSecurityPolicy))

	h := deps.Handler

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/{pattern}", h.Operation)
	})

	return r
}
