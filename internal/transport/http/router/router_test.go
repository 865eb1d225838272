package router

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	identityhandler "alphaseek/internal/identity/handler"
	"alphaseek/internal/identity/sender"
	identityservice "alphaseek/internal/identity/service"
	"alphaseek/internal/identity/store/loginlink"
	sessionstore "alphaseek/internal/identity/store/session"
	userstore "alphaseek/internal/identity/store/user"
	"alphaseek/internal/identity/token"
	subscriptionhandler "alphaseek/internal/subscription/handler"
	subscriptionservice "alphaseek/internal/subscription/service"
	subscriptionstore "alphaseek/internal/subscription/store"
	"alphaseek/pkg/testutil"
)

func newTestRouter(healthChecks map[string]HealthCheck) http.Handler {
	log := slog.Default()
	subs := subscriptionstore.NewMemory()
	tokens := token.NewService("test-key", "alphaseek", "alphaseek-web")

	resolver := identityservice.NewResolver(
		userstore.NewMemory(), sessionstore.NewMemory(), loginlink.NewMemory(),
		subs, sender.NewLogSender(log), tokens, "http://localhost:8080",
	)
	ledger := subscriptionservice.NewLedger(subs)
	validator := token.NewValidator(tokens)

	return New(Deps{
		Logger:        log,
		Auth:          identityhandler.New(resolver, validator, false, log),
		Subscriptions: subscriptionhandler.New(ledger, validator, log),
		Resolver:      resolver,
		HealthChecks:  healthChecks,
	})
}

func TestRouterSurface(t *testing.T) {
	testutil.Given(t, "the assembled HTTP router", func(t *testing.T) {
		router := newTestRouter(nil)

		testutil.When(t, "probing the health endpoint", func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			testutil.Then(t, "it should report ok", func(t *testing.T) {
				if rec.Code != http.StatusOK {
					t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
				}
				if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
					t.Fatalf("unexpected health body: %s", rec.Body.String())
				}
			})
		})

		testutil.When(t, "scraping the metrics endpoint", func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			testutil.Then(t, "it should serve the Prometheus exposition", func(t *testing.T) {
				if rec.Code != http.StatusOK {
					t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
				}
			})
		})

		testutil.When(t, "calling the ledger without a session", func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/subscriptions", nil))

			testutil.Then(t, "it should refuse with unauthorized", func(t *testing.T) {
				if rec.Code != http.StatusUnauthorized {
					t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
				}
			})
		})
	})
}

func TestHealthzDegraded(t *testing.T) {
	router := newTestRouter(map[string]HealthCheck{
		"postgres": func(context.Context) error { return context.DeadlineExceeded },
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"degraded"`) {
		t.Fatalf("unexpected health body: %s", rec.Body.String())
	}
}
