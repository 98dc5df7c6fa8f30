package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config carries the constant labels attached to every series.
type Config struct {
	ServiceName string
	Environment string
}

const (
	CacheResultHit  = "hit"
	CacheResultMiss = "miss"

	SummaryOutcomeOK          = "ok"
	SummaryOutcomeSentinel    = "sentinel"
	SummaryOutcomeRateLimited = "rate_limited"
	SummaryOutcomeBusy        = "busy"
)

// Metrics holds the Prometheus series exported on /metrics.
type Metrics struct {
	cacheRequests      *prometheus.CounterVec
	cacheLoadErrors    *prometheus.CounterVec
	cacheLoadDuration  *prometheus.HistogramVec
	cacheInvalidations prometheus.Counter
	metadataSaves      *prometheus.CounterVec
	summaries          *prometheus.CounterVec
	summaryDuration    prometheus.Histogram
	httpDuration       *prometheus.HistogramVec
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// Default returns the process-wide metrics registered on the default registerer.
func Default() *Metrics {
	return WithConfig(Config{})
}

// WithConfig returns the process-wide metrics using cfg for constant labels.
// Only the first call's config takes effect.
func WithConfig(cfg Config) *Metrics {
	metricsOnce.Do(func() {
		metrics = New(prometheus.DefaultRegisterer, cfg)
	})
	return metrics
}

// ResetForTest drops the process-wide metrics singleton.
func ResetForTest() {
	metricsOnce = sync.Once{}
	metrics = nil
}

// New builds and registers a fresh set of series on registerer.
func New(registerer prometheus.Registerer, cfg Config) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "appinventory"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &Metrics{
		cacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "appinventory_cache_requests_total",
			Help:        "Snapshot cache lookups by cache and result.",
			ConstLabels: constLabels,
		}, []string{"cache", "result"}),
		cacheLoadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "appinventory_cache_load_errors_total",
			Help:        "Snapshot loads that failed.",
			ConstLabels: constLabels,
		}, []string{"cache"}),
		cacheLoadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "appinventory_cache_load_duration_seconds",
			Help:        "Latency of snapshot loads behind a cache miss.",
			Buckets:     []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			ConstLabels: constLabels,
		}, []string{"cache"}),
		cacheInvalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "appinventory_cache_invalidations_total",
			Help:        "Invalidate-all calls across every snapshot cache.",
			ConstLabels: constLabels,
		}),
		metadataSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "appinventory_metadata_saves_total",
			Help:        "Metadata save attempts by result.",
			ConstLabels: constLabels,
		}, []string{"result"}),
		summaries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "appinventory_summaries_total",
			Help:        "AI summary requests by outcome.",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		summaryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "appinventory_summary_duration_seconds",
			Help:        "Latency of AI summary calls.",
			Buckets:     []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
			ConstLabels: constLabels,
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "appinventory_http_request_duration_seconds",
			Help:        "HTTP request latency by route and status class.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
	}

	registerer.MustRegister(
		m.cacheRequests,
		m.cacheLoadErrors,
		m.cacheLoadDuration,
		m.cacheInvalidations,
		m.metadataSaves,
		m.summaries,
		m.summaryDuration,
		m.httpDuration,
	)
	return m
}

func (m *Metrics) CacheResult(cache, result string) {
	if m == nil {
		return
	}
	m.cacheRequests.WithLabelValues(cache, result).Inc()
}

func (m *Metrics) CacheLoad(cache string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.cacheLoadDuration.WithLabelValues(cache).Observe(elapsed.Seconds())
	if err != nil {
		m.cacheLoadErrors.WithLabelValues(cache).Inc()
	}
}

func (m *Metrics) CacheInvalidated() {
	if m == nil {
		return
	}
	m.cacheInvalidations.Inc()
}

func (m *Metrics) MetadataSaved(result string) {
	if m == nil {
		return
	}
	m.metadataSaves.WithLabelValues(result).Inc()
}

func (m *Metrics) Summary(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.summaries.WithLabelValues(outcome).Inc()
	if elapsed > 0 {
		m.summaryDuration.Observe(elapsed.Seconds())
	}
}

func (m *Metrics) ObserveHTTP(method, route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route, status).Observe(elapsed.Seconds())
}
