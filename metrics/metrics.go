// Package metrics holds the Prometheus collectors for the planner API.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mealplanner",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mealplanner",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	upstreamRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mealplanner",
			Subsystem: "upstream",
			Name:      "retries_total",
			Help:      "Retried calls to third-party and backend services.",
		},
		[]string{"upstream"},
	)

	upstreamFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mealplanner",
			Subsystem: "upstream",
			Name:      "failures_total",
			Help:      "Calls to third-party and backend services that failed after all retries.",
		},
		[]string{"upstream"},
	)
)

func init() {
	Registry.MustRegister(httpRequests, httpDuration, upstreamRetries, upstreamFailures)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest observes one handled request.
func RecordHTTPRequest(method, route, status string, d time.Duration) {
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordRetry counts one retry against upstream.
func RecordRetry(upstream string) {
	upstreamRetries.WithLabelValues(upstream).Inc()
}

// RecordFailure counts one upstream call that gave up.
func RecordFailure(upstream string) {
	upstreamFailures.WithLabelValues(upstream).Inc()
}
