package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the API clients.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	ErrorsTotal     *prometheus.CounterVec
	CacheTotal      *prometheus.CounterVec
	FallbackTotal   prometheus.Counter
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_api_requests_total",
			Help: "Total API requests by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dashboard_api_request_duration_seconds",
			Help:    "API request latency.",
			Buckets: prometheus.DefBuckets,
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_api_errors_total",
			Help: "Total API errors by type.",
		},
		[]string{"error_type"},
	)
	cacheTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_api_cache_total",
			Help: "Detail cache lookups by result.",
		},
		[]string{"result"},
	)
	fallbackTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dashboard_api_fallback_total",
			Help: "Times demo data was served instead of a failed response.",
		},
	)

	registry.MustRegister(requests, requestDuration, errorsTotal, cacheTotal, fallbackTotal)

	return &Metrics{
		Registry:        registry,
		RequestsTotal:   requests,
		RequestDuration: requestDuration,
		ErrorsTotal:     errorsTotal,
		CacheTotal:      cacheTotal,
		FallbackTotal:   fallbackTotal,
	}
}

// IncRequest counts a finished request.
func (m *Metrics) IncRequest(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(endpoint, outcome).Inc()
}

// ObserveDuration records an HTTP request duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

// IncCache counts a cache hit or miss.
func (m *Metrics) IncCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheTotal.WithLabelValues(result).Inc()
}

// IncFallback counts a degraded-mode response.
func (m *Metrics) IncFallback() {
	if m == nil {
		return
	}
	m.FallbackTotal.Inc()
}
