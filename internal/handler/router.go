package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/capitalize-ai/assistant-chat/internal/middleware"
	"github.com/capitalize-ai/assistant-chat/pkg/logger"
)

// RouterConfig collects the handlers and settings the router mounts.
type RouterConfig struct {
	Assistants     *AssistantHandler
	Threads        *ThreadHandler
	Health         *HealthHandler
	AllowedOrigins []string
	// Logger defaults to the global logger when nil.
	Logger *logger.Logger
}

// NewRouter builds the HTTP router: JSON API under /api, health and
// metrics endpoints, and the embedded browser client at the root.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(logger.OrGlobal(cfg.Logger)))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.Get("/health", cfg.Health.Health)
	r.Get("/ready", cfg.Health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/assistants", func(r chi.Router) {
			r.Get("/", cfg.Assistants.List)
			r.Get("/{id}", cfg.Assistants.Get)
		})

		r.Route("/threads", func(r chi.Router) {
			r.Post("/", cfg.Threads.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Post("/messages", cfg.Threads.AppendMessage)
				r.Get("/messages", cfg.Threads.ListMessages)
				r.Post("/run", cfg.Threads.Run)
			})
		})
	})

	mountStatic(r)

	return r
}
