package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetrics records request counts and latencies per route pattern.
type HTTPMetrics struct {
	service  string
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	category *prometheus.CounterVec
}

// NewHTTPMetrics registers the HTTP collectors on reg. A nil registerer yields
// a recorder that drops every observation.
func NewHTTPMetrics(reg prometheus.Registerer, service string) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{service: service}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"service", "method", "path", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"service", "method", "path", "status"})
	category := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_status_category_total",
		Help: "Total number of responses by status category (2xx, 4xx, 5xx).",
	}, []string{"service", "category", "method", "path"})
	reg.MustRegister(requests, duration, category)
	return &HTTPMetrics{
		service:  service,
		requests: requests,
		duration: duration,
		category: category,
	}
}

// Observe records a finished request.
func (m *HTTPMetrics) Observe(method, path string, status int, elapsed time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	if path == "" {
		path = "unmatched"
	}
	code := strconv.Itoa(status)
	m.requests.WithLabelValues(m.service, method, path, code).Inc()
	m.duration.WithLabelValues(m.service, method, path, code).Observe(elapsed.Seconds())
	if category := statusCategory(status); category != "" {
		m.category.WithLabelValues(m.service, category, method, path).Inc()
	}
}

func statusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	}
	return ""
}

// Handler exposes the gatherer in the prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
