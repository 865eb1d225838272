package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	SubscriptionsCreated     prometheus.Counter
	SubscriptionsDeactivated prometheus.Counter
	LoginLinksIssued         prometheus.Counter
	LoginsCompleted          prometheus.Counter
	SessionsTerminated       prometheus.Counter
	RequestDuration          *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		SubscriptionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "alphaseek_subscriptions_created_total",
			Help: "Total number of subscription rows created",
		}),
		SubscriptionsDeactivated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "alphaseek_subscriptions_deactivated_total",
			Help: "Total number of subscription rows soft-deleted",
		}),
		LoginLinksIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "alphaseek_login_links_issued_total",
			Help: "Total number of passwordless sign-in links issued",
		}),
		LoginsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "alphaseek_logins_completed_total",
			Help: "Total number of sign-in links successfully consumed",
		}),
		SessionsTerminated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "alphaseek_sessions_terminated_total",
			Help: "Total number of sessions explicitly terminated",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "alphaseek_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

func (m *Metrics) IncrementSubscriptionsCreated() {
	if m != nil {
		m.SubscriptionsCreated.Inc()
	}
}

func (m *Metrics) IncrementSubscriptionsDeactivated() {
	if m != nil {
		m.SubscriptionsDeactivated.Inc()
	}
}

func (m *Metrics) IncrementLoginLinksIssued() {
	if m != nil {
		m.LoginLinksIssued.Inc()
	}
}

func (m *Metrics) IncrementLoginsCompleted() {
	if m != nil {
		m.LoginsCompleted.Inc()
	}
}

func (m *Metrics) IncrementSessionsTerminated() {
	if m != nil {
		m.SessionsTerminated.Inc()
	}
}

// ObserveRequest records one request's latency in seconds.
func (m *Metrics) ObserveRequest(route, status string, seconds float64) {
	if m != nil {
		m.RequestDuration.WithLabelValues(route, status).Observe(seconds)
	}
}
