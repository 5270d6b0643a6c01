// Package metrics provides Prometheus metrics for the dugout optimization
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Optimization metrics
	optimizations        *prometheus.CounterVec // by mode
	optimizationDuration *prometheus.HistogramVec
	infeasibleTotal      prometheus.Counter
	fallbackTotal        prometheus.Counter
	invalidTotal         prometheus.Counter

	// Result cache metrics
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	cacheSize   prometheus.Gauge

	// Catalog metrics
	catalogSize      prometheus.Gauge
	catalogRefreshes prometheus.Counter

	// Precompute pipeline metrics
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueEnqueues    prometheus.Counter
	queueDrops       prometheus.Counter
	workerCount      prometheus.Gauge
	precomputeErrors prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimited         prometheus.Counter
}

// Global metrics manager instance backed by a custom registry, keeping the
// default Go collectors out of the scrape.
var (
	globalManager  *Manager              //nolint:gochecknoglobals // singleton metrics manager
	customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry
)

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "dugout",
		subsystem:        "optimizer",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initialize()
	return m
}

func (m *Manager) initialize() {
	factory := promauto.With(m.registry)

	m.optimizations = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "optimizations_total",
		Help:      "Completed optimizations by producing mode.",
	}, []string{"mode"})

	m.optimizationDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "optimization_duration_seconds",
		Help:      "Wall time spent solving one optimization request.",
		Buckets:   m.histogramBuckets,
	}, []string{"mode"})

	m.infeasibleTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "infeasible_total",
		Help:      "Requests with no satisfying roster.",
	})

	m.fallbackTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "exact_fallback_total",
		Help:      "Exact-mode requests degraded to heuristic by search limits.",
	})

	m.invalidTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "invalid_constraint_total",
		Help:      "Requests rejected during validation.",
	})

	m.cacheHits = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Result cache hits.",
	})

	m.cacheMisses = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Result cache misses.",
	})

	m.cacheSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "cache",
		Name:      "entries",
		Help:      "Cached results currently held.",
	})

	m.catalogSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "catalog",
		Name:      "candidates",
		Help:      "Candidates in the active catalog snapshot.",
	})

	m.catalogRefreshes = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "catalog",
		Name:      "refreshes_total",
		Help:      "Catalog snapshot replacements.",
	})

	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "precompute",
		Name:      "queue_size",
		Help:      "Precompute jobs waiting in the queue.",
	})

	m.queueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "precompute",
		Name:      "queue_capacity",
		Help:      "Configured precompute queue capacity.",
	})

	m.queueEnqueues = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "precompute",
		Name:      "enqueued_total",
		Help:      "Precompute jobs accepted by the queue.",
	})

	m.queueDrops = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "precompute",
		Name:      "dropped_total",
		Help:      "Precompute jobs dropped on backpressure.",
	})

	m.workerCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "precompute",
		Name:      "workers",
		Help:      "Running precompute workers.",
	})

	m.precomputeErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "precompute",
		Name:      "errors_total",
		Help:      "Precompute jobs that failed.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by endpoint, method and status.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.rateLimited = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the optimize rate limiter.",
	})
}

// GetRegistry returns the custom registry backing the global manager, for
// mounting the /metrics handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers against the global manager.

func RecordOptimization(mode string, durationSeconds float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.optimizations.WithLabelValues(mode).Inc()
	globalManager.optimizationDuration.WithLabelValues(mode).Observe(durationSeconds)
}

func RecordInfeasible() {
	if globalManager.enabled {
		globalManager.infeasibleTotal.Inc()
	}
}

func RecordFallback() {
	if globalManager.enabled {
		globalManager.fallbackTotal.Inc()
	}
}

func RecordInvalidConstraint() {
	if globalManager.enabled {
		globalManager.invalidTotal.Inc()
	}
}

func RecordCacheHit() {
	if globalManager.enabled {
		globalManager.cacheHits.Inc()
	}
}

func RecordCacheMiss() {
	if globalManager.enabled {
		globalManager.cacheMisses.Inc()
	}
}

func UpdateCacheSize(n int) {
	if globalManager.enabled {
		globalManager.cacheSize.Set(float64(n))
	}
}

func UpdateCatalogSize(n int) {
	if globalManager.enabled {
		globalManager.catalogSize.Set(float64(n))
	}
}

func RecordCatalogRefresh() {
	if globalManager.enabled {
		globalManager.catalogRefreshes.Inc()
	}
}

func UpdateQueueSize(n int) {
	if globalManager.enabled {
		globalManager.queueSize.Set(float64(n))
	}
}

func UpdateQueueCapacity(n int) {
	if globalManager.enabled {
		globalManager.queueCapacity.Set(float64(n))
	}
}

func RecordQueueEnqueue() {
	if globalManager.enabled {
		globalManager.queueEnqueues.Inc()
	}
}

func RecordQueueDrop() {
	if globalManager.enabled {
		globalManager.queueDrops.Inc()
	}
}

func UpdateWorkerCount(n int) {
	if globalManager.enabled {
		globalManager.workerCount.Set(float64(n))
	}
}

func RecordPrecomputeError() {
	if globalManager.enabled {
		globalManager.precomputeErrors.Inc()
	}
}

func RecordHTTPRequest(endpoint, method, status string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	}
}

func RecordHTTPRequestDuration(endpoint, method, status string, seconds float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(seconds)
	}
}

func RecordRateLimited() {
	if globalManager.enabled {
		globalManager.rateLimited.Inc()
	}
}
