package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wattbill_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wattbill_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	billMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wattbill_bill_mutations_total",
		Help: "Count of bill mutations by operation and result",
	}, []string{"operation", "result"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wattbill_login_attempts_total",
		Help: "Count of login attempts by result",
	}, []string{"result"})

	dashboardDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wattbill_dashboard_compute_duration_seconds",
		Help:    "Duration of dashboard computations including the store scan",
		Buckets: prometheus.DefBuckets,
	})

	billsObserved = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wattbill_bills_observed",
		Help: "Number of bills seen by the last dashboard computation",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveBillMutation counts a create, update or delete with its result.
func ObserveBillMutation(operation, result string) {
	billMutations.WithLabelValues(operation, result).Inc()
}

// ObserveLogin counts a login attempt. result is "success", "failure" or "error".
func ObserveLogin(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}

// ObserveDashboard records one dashboard computation.
func ObserveDashboard(duration time.Duration, bills int) {
	dashboardDuration.Observe(duration.Seconds())
	if bills < 0 {
		bills = 0
	}
	billsObserved.Set(float64(bills))
}
