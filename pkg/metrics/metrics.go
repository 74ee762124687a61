package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Package-level manager so call sites stay one-liners, mirroring the
// logger's global. Initialized lazily with the default registry when no
// explicit Init happened.
var (
	defaultManager  *Manager
	defaultRegistry = prometheus.NewRegistry()
	initOnce        sync.Once
)

// Init installs the package-level manager. Safe to call once at startup.
func Init(opts ...Option) {
	initOnce.Do(func() {
		opts = append([]Option{WithRegistry(defaultRegistry)}, opts...)
		defaultManager = NewManager(opts...)
	})
}

// GetRegistry returns the registry backing the package-level manager.
func GetRegistry() *prometheus.Registry {
	return defaultRegistry
}

func manager() *Manager {
	Init()
	return defaultManager
}

// RecordPrediction counts one completed prediction request covering n contests.
func RecordPrediction(contests int, seconds float64) {
	m := manager()
	m.predictionsTotal.Inc()
	m.contestsPredicted.Observe(float64(contests))
	m.predictionLatency.Observe(seconds)
}

// RecordPredictionError counts one failed prediction request by failure kind.
func RecordPredictionError(kind string) {
	manager().predictionErrors.WithLabelValues(kind).Inc()
}

// RecordRemoteCall counts one outbound GraphQL call.
func RecordRemoteCall(query, outcome string, seconds float64) {
	m := manager()
	m.remoteCalls.WithLabelValues(query, outcome).Inc()
	m.remoteCallLatency.WithLabelValues(query).Observe(seconds)
}

// GateWaitStarted/GateWaitDone track callers blocked on the admission gate.
func GateWaitStarted() { manager().gateWaiting.Inc() }
func GateWaitDone()    { manager().gateWaiting.Dec() }

// RecordCacheHit counts a cache hit in the given key namespace.
func RecordCacheHit(namespace string) {
	manager().cacheHits.WithLabelValues(namespace).Inc()
}

// RecordCacheMiss counts a cache miss in the given key namespace.
func RecordCacheMiss(namespace string) {
	manager().cacheMisses.WithLabelValues(namespace).Inc()
}

// RecordHTTPRequest counts one HTTP request and its latency.
func RecordHTTPRequest(endpoint, method, status string, seconds float64) {
	m := manager()
	m.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(seconds)
}
