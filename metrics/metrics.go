// Package metrics owns the Prometheus registry and the collectors shared by the HTTP layer and services.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the process-wide registry exposed on /metrics.
var Registry = prometheus.NewRegistry()

// HTTP
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"endpoint", "method", "status"},
	)

	HTTPRequestsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_active",
			Help: "Number of active concurrent HTTP requests",
		},
		[]string{"endpoint", "method"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Domain
var (
	PointsAwardedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eduquest_points_awarded_total",
			Help: "Points awarded to learners",
		},
		[]string{"reason"},
	)

	BadgesAwardedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eduquest_badges_awarded_total",
			Help: "Badges awarded to learners",
		},
		[]string{"badge"},
	)

	RateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eduquest_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"scope"},
	)

	AnalyticsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eduquest_analytics_events_total",
			Help: "Analytics events by action and outcome",
		},
		[]string{"action", "outcome"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HTTPRequestsTotal,
		HTTPRequestsActive,
		HTTPRequestDurationSeconds,
		PointsAwardedTotal,
		BadgesAwardedTotal,
		AnalyticsEventsTotal,
		RateLimitedTotal,
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
