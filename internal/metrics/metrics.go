// Package metrics holds the Prometheus collectors for report generation,
// upstream market data requests and the HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is nil-safe: every method on a nil *Metrics is a no-op.
type Metrics struct {
	registry *prometheus.Registry

	reportsTotal      *prometheus.CounterVec
	reportErrors      *prometheus.CounterVec
	upstreamDuration  prometheus.Histogram
	upstreamErrors    prometheus.Counter
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// New registers all collectors on a private registry, so several instances
// can coexist (tests, multiple servers in one process).
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		reportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "imbalance_reports_generated_total",
			Help: "Reports composed, by input source.",
		}, []string{"source"}),
		reportErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "imbalance_report_errors_total",
			Help: "Report compositions that failed, by error kind.",
		}, []string{"kind"}),
		upstreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "imbalance_upstream_request_duration_seconds",
			Help:    "Histogram of market data source request durations.",
			Buckets: prometheus.DefBuckets,
		}),
		upstreamErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "imbalance_upstream_errors_total",
			Help: "Market data source requests that failed.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "imbalance_cache_hits_total",
			Help: "Market data responses served from cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "imbalance_cache_misses_total",
			Help: "Market data lookups that missed the cache.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		m.reportsTotal,
		m.reportErrors,
		m.upstreamDuration,
		m.upstreamErrors,
		m.cacheHits,
		m.cacheMisses,
		m.httpRequestsTotal,
		m.httpDuration,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the exposition format for this instance's registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ReportGenerated(source string) {
	if m == nil {
		return
	}
	m.reportsTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) ReportFailed(kind string) {
	if m == nil {
		return
	}
	m.reportErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) UpstreamRequest(duration time.Duration, success bool) {
	if m == nil {
		return
	}
	m.upstreamDuration.Observe(duration.Seconds())
	if !success {
		m.upstreamErrors.Inc()
	}
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

func (m *Metrics) HTTPRequest(route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}
