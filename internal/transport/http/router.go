// Package httptransport assembles the public HTTP surface of the service.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"conform/internal/platform/middleware"
	"conform/pkg/platform/httputil"
)

// Registrar mounts a feature's endpoints on the router. Both the project and
// assessment handlers satisfy it.
type Registrar interface {
	Register(r chi.Router)
}

// Deps carries everything the router needs. Health is optional; when nil the
// health endpoint reports OK as long as the process serves requests.
type Deps struct {
	Logger       *slog.Logger
	Handlers     []Registrar
	Token        middleware.TokenValidator
	AuthRequired bool
	Health       func(ctx context.Context) error
}

// NewRouter wires middleware, operational endpoints, and the API routes.
// Auth, when enabled, guards the API routes only; health and metrics stay
// open for probes and scrapers.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(deps.Logger))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if deps.Health != nil {
			if err := deps.Health(req.Context()); err != nil {
				deps.Logger.WarnContext(req.Context(), "health check failed", "error", err)
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if deps.AuthRequired {
			r.Use(middleware.RequireAuth(deps.Token, deps.Logger))
		}
		for _, h := range deps.Handlers {
			h.Register(r)
		}
	})

	return r
}
