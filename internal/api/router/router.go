// Package router assembles the chi router from configured handlers.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/stagehand-ai/stagehand/internal/http/handlers"
	httpmiddleware "github.com/stagehand-ai/stagehand/internal/http/middleware"
	"github.com/stagehand-ai/stagehand/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger         *logging.Logger
	Health         *handlers.HealthHandler
	Webhook        *handlers.WebhookHandler
	API            *handlers.APIHandler
	MetricsHandler http.Handler
}

// New creates the chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	health := cfg.Health
	if health == nil {
		health = handlers.NewHealthHandler(nil)
	}
	r.Get("/health", health.Handle)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/webhook/{tenantID}", func(wh chi.Router) {
		wh.Use(httpmiddleware.TenantContext)
		wh.Post("/", cfg.Webhook.Handle)
	})

	r.Route("/api/{tenantID}", func(api chi.Router) {
		api.Use(httpmiddleware.TenantContext)
		api.Get("/stats", cfg.API.Stats)
		api.Get("/conversations", cfg.API.Conversations)
		api.Get("/calendar/slots", cfg.API.Slots)
		api.Post("/test", cfg.API.Test)
	})

	return r
}
