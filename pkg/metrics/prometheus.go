// Package metrics provides Prometheus metrics for the rating predictor
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace string
	registry  prometheus.Registerer

	// Prediction metrics
	predictionsTotal  prometheus.Counter
	predictionErrors  *prometheus.CounterVec
	contestsPredicted prometheus.Histogram
	predictionLatency prometheus.Histogram

	// Remote provider metrics
	remoteCalls       *prometheus.CounterVec
	remoteCallLatency *prometheus.HistogramVec
	gateWaiting       prometheus.Gauge

	// Cache metrics
	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithRegistry sets a custom Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// NewManager creates and registers all metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "lcrp",
		registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}

	factory := promauto.With(m.registry)

	m.predictionsTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "predictions_total",
		Help:      "Completed prediction requests.",
	})
	m.predictionErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "prediction_errors_total",
		Help:      "Failed prediction requests by failure kind.",
	}, []string{"kind"})
	m.contestsPredicted = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "contests_per_request",
		Help:      "Number of contests in one prediction request.",
		Buckets:   []float64{0, 1, 2, 3, 5, 10, 20},
	})
	m.predictionLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "prediction_duration_seconds",
		Help:      "End-to-end latency of one prediction request.",
		Buckets:   prometheus.DefBuckets,
	})

	m.remoteCalls = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "remote_calls_total",
		Help:      "Outbound GraphQL calls by query kind and outcome.",
	}, []string{"query", "outcome"})
	m.remoteCallLatency = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "remote_call_duration_seconds",
		Help:      "Latency of outbound GraphQL calls by query kind.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"query"})
	m.gateWaiting = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "admission_gate_waiting",
		Help:      "Calls currently waiting on the remote admission gate.",
	})

	m.cacheHits = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "cache_hits_total",
		Help:      "Cache hits by key namespace.",
	}, []string{"namespace"})
	m.cacheMisses = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "cache_misses_total",
		Help:      "Cache misses by key namespace.",
	}, []string{"namespace"})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method, and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by endpoint, method, and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "method", "status"})

	return m
}
