// Package metrics defines the Prometheus metric collectors used across the
// service and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	QueriesTotal         *prometheus.CounterVec
	QueryLatency         *prometheus.HistogramVec
	TraversalDepth       prometheus.Histogram
	TraversalVisited     prometheus.Histogram
	CacheHitsTotal       prometheus.Counter
	CacheMissesTotal     prometheus.Counter
	GraphSynsets         prometheus.Gauge
	GraphLemmas          prometheus.Gauge
	GraphRelations       prometheus.Gauge
	CorpusLoadSeconds    prometheus.Gauge
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexicon_queries_total",
				Help: "Total lexicon queries by operation and result class (ok, empty, not_found, invalid, error).",
			},
			[]string{"operation", "result"},
		),
		QueryLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lexicon_query_latency_seconds",
				Help:    "Lexicon query latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
			},
			[]string{"operation", "cache_status"},
		),
		TraversalDepth: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lexicon_traversal_depth",
				Help:    "Requested depth of relation traversals.",
				Buckets: []float64{1, 2, 3, 4, 5, 6, 7, 8},
			},
		),
		TraversalVisited: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lexicon_traversal_visited_synsets",
				Help:    "Number of synsets visited per relation traversal.",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses.",
			},
		),
		GraphSynsets: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lexicon_graph_synsets",
				Help: "Number of synsets in the loaded lexical graph.",
			},
		),
		GraphLemmas: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lexicon_graph_lemmas",
				Help: "Number of lemmas in the loaded lexical graph.",
			},
		),
		GraphRelations: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lexicon_graph_relations",
				Help: "Number of directed relations in the loaded lexical graph.",
			},
		),
		CorpusLoadSeconds: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lexicon_corpus_load_seconds",
				Help: "Wall-clock time spent loading and indexing the corpora.",
			},
		),
	}

	prometheus.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.QueriesTotal,
		m.QueryLatency,
		m.TraversalDepth,
		m.TraversalVisited,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.GraphSynsets,
		m.GraphLemmas,
		m.GraphRelations,
		m.CorpusLoadSeconds,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
