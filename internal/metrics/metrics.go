package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds folio's collectors on a private registry so that several
// servers (and tests) can coexist in one process.
type Metrics struct {
	Registry     *prometheus.Registry
	Renders      *prometheus.CounterVec
	RenderBlocks prometheus.Histogram
	CacheLookups *prometheus.CounterVec
	HTTPRequests *prometheus.CounterVec
}

// New builds and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "folio_render_total",
				Help: "Documents rendered to blocks, by source",
			},
			[]string{"source"},
		),
		RenderBlocks: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "folio_render_blocks",
				Help:    "Blocks produced per rendered document",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "folio_render_cache_total",
				Help: "Render cache lookups, by result (hit|miss|error)",
			},
			[]string{"result"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "folio_http_requests_total",
				Help: "HTTP requests served, by route pattern and status code",
			},
			[]string{"route", "code"},
		),
	}
	m.Registry.MustRegister(m.Renders, m.RenderBlocks, m.CacheLookups, m.HTTPRequests)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// ObserveRender records one render of n blocks. A nil receiver is a no-op.
func (m *Metrics) ObserveRender(source string, n int) {
	if m == nil {
		return
	}
	m.Renders.WithLabelValues(source).Inc()
	m.RenderBlocks.Observe(float64(n))
}

// ObserveCache records a cache lookup result. A nil receiver is a no-op.
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
