// Package metrics provides Prometheus collectors for the safety API:
//   - HTTP traffic (requests, latency, in-flight, rate limiter buckets)
//   - safety checks (verdicts, scores, findings)
//   - the interaction catalog (size, refresh outcomes and duration)
//
// All collectors are registered with the Prometheus default registry
// during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets currently tracked",
		},
	)

	SafetyChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safety_checks_total",
			Help: "Completed safety checks by verdict",
		},
		[]string{"status"},
	)

	SafetyScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "safety_score",
			Help:    "Distribution of safety scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	SafetyIssuesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safety_issues_total",
			Help: "Findings emitted by safety checks",
		},
		[]string{"kind", "severity"},
	)

	CatalogProducts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_products",
			Help: "Products in the current catalog snapshot",
		},
	)

	CatalogInteractions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_interactions",
			Help: "Interactions in the current catalog snapshot",
		},
	)

	CatalogRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_refresh_total",
			Help: "Catalog refresh attempts by result",
		},
		[]string{"result"},
	)

	CatalogRefreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_refresh_duration_seconds",
			Help:    "Catalog refresh latency",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(SafetyChecksTotal)
	prometheus.MustRegister(SafetyScore)
	prometheus.MustRegister(SafetyIssuesTotal)
	prometheus.MustRegister(CatalogProducts)
	prometheus.MustRegister(CatalogInteractions)
	prometheus.MustRegister(CatalogRefreshTotal)
	prometheus.MustRegister(CatalogRefreshDuration)
}
