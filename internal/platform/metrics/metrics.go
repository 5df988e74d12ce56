package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and histograms for the HLS resolver.
type Metrics struct {
	registry             *prometheus.Registry
	requestsTotal        prometheus.Counter
	errorsTotal          prometheus.Counter
	resolvesTotal        prometheus.Counter
	resolveFailuresTotal prometheus.Counter
	resolveDuration      prometheus.Histogram
}

// New creates and registers Prometheus metrics for the resolver service.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hls_requests_total",
		Help: "Total number of HTTP requests received",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hls_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})
	resolvesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hls_resolves_total",
		Help: "Total number of successful stream URL resolutions",
	})
	resolveFailuresTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hls_resolve_failures_total",
		Help: "Total number of failed stream URL resolutions",
	})
	resolveDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "hls_resolve_duration_seconds",
		Help:    "End-to-end resolution duration, dominated by the external probe",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
	})

	registry.MustRegister(
		requestsTotal,
		errorsTotal,
		resolvesTotal,
		resolveFailuresTotal,
		resolveDuration,
	)

	return &Metrics{
		registry:             registry,
		requestsTotal:        requestsTotal,
		errorsTotal:          errorsTotal,
		resolvesTotal:        resolvesTotal,
		resolveFailuresTotal: resolveFailuresTotal,
		resolveDuration:      resolveDuration,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// IncResolves increments the successful resolution counter.
func (m *Metrics) IncResolves() {
	m.resolvesTotal.Inc()
}

// IncResolveFailures increments the failed resolution counter.
func (m *Metrics) IncResolveFailures() {
	m.resolveFailuresTotal.Inc()
}

// ObserveResolveDuration records one resolution duration in seconds.
func (m *Metrics) ObserveResolveDuration(seconds float64) {
	m.resolveDuration.Observe(seconds)
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
