// Package metrics exposes Prometheus collectors for the analysis service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the service records. All methods are safe on
// a nil receiver so callers can run without metrics.
type Metrics struct {
	registry *prometheus.Registry

	AnalysesTotal     *prometheus.CounterVec   // labels: operation, outcome
	AnalysisDuration  *prometheus.HistogramVec // labels: operation
	ProviderRequests  *prometheus.CounterVec   // labels: call, outcome
	QuoteCache        *prometheus.CounterVec   // labels: result=hit|miss|error
	EnrichmentsTotal  *prometheus.CounterVec   // labels: outcome
	HTTPRequestsTotal *prometheus.CounterVec   // labels: method, route, status
	WatchlistRuns     prometheus.Counter
}

// New builds the collectors on a private registry along with the Go and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketlens_analyses_total",
			Help: "Analyses served, by operation and outcome",
		}, []string{"operation", "outcome"}),
		AnalysisDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marketlens_analysis_duration_seconds",
			Help:    "End-to-end analysis latency including data fetch",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketlens_provider_requests_total",
			Help: "Market data provider calls, by call and outcome",
		}, []string{"call", "outcome"}),
		QuoteCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketlens_quote_cache_total",
			Help: "Quote cache lookups by result",
		}, []string{"result"}),
		EnrichmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketlens_enrichments_total",
			Help: "Deep analysis enrichment attempts by outcome",
		}, []string{"outcome"}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketlens_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		WatchlistRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketlens_watchlist_runs_total",
			Help: "Completed watchlist digest runs",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.AnalysesTotal,
		m.AnalysisDuration,
		m.ProviderRequests,
		m.QuoteCache,
		m.EnrichmentsTotal,
		m.HTTPRequestsTotal,
		m.WatchlistRuns,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveAnalysis(operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(operation, outcome(err)).Inc()
	m.AnalysisDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveProvider(call string, err error) {
	if m == nil {
		return
	}
	m.ProviderRequests.WithLabelValues(call, outcome(err)).Inc()
}

func (m *Metrics) ObserveQuoteCache(result string) {
	if m == nil {
		return
	}
	m.QuoteCache.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveEnrichment(err error) {
	if m == nil {
		return
	}
	m.EnrichmentsTotal.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) ObserveHTTP(method, route, status string) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
}

func (m *Metrics) ObserveWatchlistRun() {
	if m == nil {
		return
	}
	m.WatchlistRuns.Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
