// Package metrics exposes Prometheus instrumentation for the librarian
// service: tool invocations, rate limiter decisions, and upstream
// Wikipedia request latencies.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	toolInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "librarian_tool_invocations_total",
			Help: "Tool invocations by tool name and outcome.",
		},
		[]string{"tool", "status"},
	)

	rateLimitDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "librarian_rate_limit_decisions_total",
			Help: "Outbound requests allowed or denied by the token bucket.",
		},
		[]string{"outcome"},
	)

	upstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "librarian_upstream_request_duration_seconds",
			Help:    "Latency of requests to the Wikipedia API by status code.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "librarian_http_requests_total",
			Help: "Inbound HTTP requests by path and status code.",
		},
		[]string{"path", "status"},
	)
)

// RecordToolInvocation counts one tool call and whether it succeeded
func RecordToolInvocation(tool string, success bool) {
	status := "error"
	if success {
		status = "success"
	}
	toolInvocations.WithLabelValues(tool, status).Inc()
}

// RecordRateLimit counts one limiter decision on the outbound path
func RecordRateLimit(allowed bool) {
	outcome := "denied"
	if allowed {
		outcome = "allowed"
	}
	rateLimitDecisions.WithLabelValues(outcome).Inc()
}

// ObserveUpstreamRequest records the latency of one upstream request
func ObserveUpstreamRequest(statusCode int, duration time.Duration) {
	upstreamRequestDuration.WithLabelValues(strconv.Itoa(statusCode)).Observe(duration.Seconds())
}

// RecordHTTPRequest counts one inbound HTTP request
func RecordHTTPRequest(path string, statusCode int) {
	httpRequests.WithLabelValues(path, strconv.Itoa(statusCode)).Inc()
}
