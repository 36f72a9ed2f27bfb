// Package metrics exposes Prometheus instrumentation for the proxy.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the Prometheus registry and every metric the proxy records.
// It registers against its own registry so tests can create isolated
// collectors without hitting the global default.
type Collector struct {
	registry *prometheus.Registry

	requestsTotal        *prometheus.CounterVec
	streamDuration       prometheus.Histogram
	deltasForwardedTotal prometheus.Counter
	rewriteHitsTotal     *prometheus.CounterVec
	probeInterceptsTotal prometheus.Counter
	upstreamErrorsTotal  *prometheus.CounterVec
}

// NewCollector creates a collector with all proxy metrics registered.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chatgate",
			Name:      "requests_total",
			Help:      "Total HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		streamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chatgate",
			Name:      "stream_duration_seconds",
			Help:      "Wall-clock duration of completed chat streams.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
		deltasForwardedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chatgate",
			Name:      "deltas_forwarded_total",
			Help:      "Text deltas forwarded to clients.",
		}),
		rewriteHitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chatgate",
			Name:      "rewrite_hits_total",
			Help:      "Delta rewrites applied, by filter policy.",
		}, []string{"policy"}),
		probeInterceptsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chatgate",
			Name:      "probe_intercepts_total",
			Help:      "Identity probes answered locally without upstream dispatch.",
		}),
		upstreamErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chatgate",
			Name:      "upstream_errors_total",
			Help:      "Upstream failures by kind.",
		}, []string{"kind"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.requestsTotal,
		c.streamDuration,
		c.deltasForwardedTotal,
		c.rewriteHitsTotal,
		c.probeInterceptsTotal,
		c.upstreamErrorsTotal,
	)

	return c
}

// RecordRequest counts a completed HTTP request.
func (c *Collector) RecordRequest(route, status string) {
	c.requestsTotal.WithLabelValues(route, status).Inc()
}

// RecordStreamDuration observes the duration of a finished stream.
func (c *Collector) RecordStreamDuration(d time.Duration) {
	c.streamDuration.Observe(d.Seconds())
}

// RecordDeltaForwarded counts a text delta written to the client.
func (c *Collector) RecordDeltaForwarded() {
	c.deltasForwardedTotal.Inc()
}

// RecordRewriteHit counts a delta changed by the content filter.
func (c *Collector) RecordRewriteHit(policy string) {
	c.rewriteHitsTotal.WithLabelValues(policy).Inc()
}

// RecordProbeIntercept counts an identity probe answered locally.
func (c *Collector) RecordProbeIntercept() {
	c.probeInterceptsTotal.Inc()
}

// RecordUpstreamError counts an upstream failure. Kind is one of
// "dispatch", "status" or "stream".
func (c *Collector) RecordUpstreamError(kind string) {
	c.upstreamErrorsTotal.WithLabelValues(kind).Inc()
}

// Handler returns the Prometheus scrape handler bound to this collector's
// registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
