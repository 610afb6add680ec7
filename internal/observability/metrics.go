package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "sports_calendar"

// Metrics records source, upstream, cycle and cache measurements on a private registry.
// A nil *Metrics discards every observation.
type Metrics struct {
	registry *prometheus.Registry

	sourceCollects  *prometheus.CounterVec
	sourceEvents    *prometheus.GaugeVec
	sourceDuration  *prometheus.HistogramVec
	upstreamCalls   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	cycles          *prometheus.CounterVec
	cycleDuration   prometheus.Histogram
	cacheLookups    *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sourceCollects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "source_collects_total",
			Help:      "Source collection attempts by source and outcome",
		}, []string{"source", "outcome"}),
		sourceEvents: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "source_events",
			Help:      "Events contributed by a source in its last successful collection",
		}, []string{"source"}),
		sourceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "source_collect_duration_seconds",
			Help:      "Time spent collecting one source",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "upstream_requests_total",
			Help:      "Upstream requests by provider and outcome",
		}, []string{"provider", "outcome"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream request latency by provider",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "feed_cycles_total",
			Help:      "Completed aggregation cycles",
		}, []string{"degraded"}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "feed_cycle_duration_seconds",
			Help:      "Wall time of one aggregation cycle",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "feed_cache_lookups_total",
			Help:      "Feed memo lookups by result",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.sourceCollects, m.sourceEvents, m.sourceDuration,
		m.upstreamCalls, m.upstreamLatency,
		m.cycles, m.cycleDuration, m.cacheLookups,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveSource(source string, outcome string, events int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.sourceCollects.WithLabelValues(source, outcome).Inc()
	m.sourceDuration.WithLabelValues(source).Observe(elapsed.Seconds())
	if outcome == "ok" {
		m.sourceEvents.WithLabelValues(source).Set(float64(events))
	}
}

func (m *Metrics) ObserveCycle(elapsed time.Duration, degraded bool) {
	if m == nil {
		return
	}
	m.cycles.WithLabelValues(strconv.FormatBool(degraded)).Inc()
	m.cycleDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveFetch(provider string, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.upstreamCalls.WithLabelValues(provider, outcome).Inc()
	m.upstreamLatency.WithLabelValues(provider).Observe(elapsed.Seconds())
}
