// Package router assembles the HTTP surface: middleware stack, feature
// handlers, health and metrics endpoints.
package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	identityhandler "alphaseek/internal/identity/handler"
	"alphaseek/internal/platform/metrics"
	"alphaseek/internal/platform/middleware"
	subscriptionhandler "alphaseek/internal/subscription/handler"
	"alphaseek/internal/transport/http/shared"
)

const requestTimeout = 30 * time.Second

// HealthCheck reports whether one backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Deps struct {
	Logger        *slog.Logger
	Metrics       *metrics.Metrics
	Auth          *identityhandler.Handler
	Subscriptions *subscriptionhandler.Handler
	Resolver      subscriptionhandler.PrincipalResolver
	HealthChecks  map[string]HealthCheck
}

func New(deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.LatencyMiddleware(deps.Metrics))

	deps.Auth.Register(r)
	deps.Subscriptions.Register(r)
	deps.Subscriptions.RegisterPortfolio(r, deps.Resolver)

	r.Get("/healthz", healthz(deps.HealthChecks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func healthz(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		out := make(map[string]string, len(checks)+1)
		out["status"] = "ok"
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				out["status"] = "degraded"
				out[name] = err.Error()
				continue
			}
			out[name] = "ok"
		}
		shared.WriteJSON(w, status, out)
	}
}
