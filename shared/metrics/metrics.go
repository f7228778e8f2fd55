package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accounts_http_requests_total",
			Help: "Total HTTP requests served by the account API.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "accounts_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	AccountOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accounts_operations_total",
			Help: "Account lifecycle operations by outcome.",
		},
		[]string{"operation", "result"},
	)
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordOperation counts one lifecycle operation; err decides the result label.
func RecordOperation(operation string, err error) {
	RecordOutcome(operation, err == nil)
}

func RecordOutcome(operation string, ok bool) {
	result := ResultSuccess
	if !ok {
		result = ResultFailure
	}
	AccountOperationsTotal.WithLabelValues(operation, result).Inc()
}
