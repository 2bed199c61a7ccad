// Package webhook receives GitHub webhook deliveries and feeds them to the status pipeline.
package webhook

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/carsonhq/carson-bot/internal/logger"
)

// NewRouter wires the webhook and health endpoints.
func NewRouter(runner EventRunner, secret string, log *zap.Logger, timeout time.Duration) *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logger.MiddlewareLogger(log))
	router.Use(middleware.Recoverer)
	if timeout > 0 {
		router.Use(middleware.Timeout(timeout))
	}

	router.Get("/healthz", Health(log))
	router.Post("/webhooks/github", GitHubEvents(runner, []byte(secret), log))

	return router
}
