package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestCounter counts requests by endpoint and status code.
	HTTPRequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status code",
		},
		[]string{"endpoint", "status"},
	)

	// HTTPRequestDuration observes request latency per endpoint.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP request duration in seconds for all endpoints",
		},
		[]string{"endpoint"},
	)

	// AuthFailureCounter distinguishes auth failure families. Configuration
	// faults are tracked apart from client credential/token failures so that
	// a missing server secret never hides inside the 4xx noise.
	AuthFailureCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Total number of authentication failures by reason family",
		},
		[]string{"reason"},
	)
)

// Auth failure reason families.
const (
	ReasonCredentials = "credentials"
	ReasonToken       = "token"
	ReasonConfig      = "config"
)

// ObserveRequest records one completed HTTP request.
func ObserveRequest(endpoint string, status int, elapsed time.Duration) {
	HTTPRequestCounter.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// Handler exposes the default registry, mounted at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
