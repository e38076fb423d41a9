package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics carries every prometheus series the tracker exports. One instance
// exists per process, registered on a private registry served by /metrics.
type Metrics struct {
	// HTTP request duration histogram
	requestDuration *prometheus.HistogramVec

	// HTTP request count counter
	requestsTotal *prometheus.CounterVec

	// HTTP requests currently in flight
	inFlightRequests *prometheus.GaugeVec

	// Aggregation run counters and timings
	runsTotal            *prometheus.CounterVec
	runDuration          prometheus.Histogram
	lastRunTimestamp     prometheus.Gauge
	transactionsExported prometheus.Gauge

	// Transfer API pagination
	fetchPages    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
}

// NewMetrics creates all tracker metrics, unregistered.
func NewMetrics() *Metrics {
	return &Metrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wallet_tracker_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"method", "path", "status"},
		),

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_tracker_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		inFlightRequests: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wallet_tracker_http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
			[]string{"method", "path"},
		),

		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_tracker_runs_total",
				Help: "Total number of aggregation runs by trigger and final status",
			},
			[]string{"trigger", "status"},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wallet_tracker_run_duration_seconds",
				Help:    "Duration of aggregation runs in seconds",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
			},
		),

		lastRunTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "wallet_tracker_last_run_timestamp_seconds",
				Help: "Unix time of the last finished aggregation run",
			},
		),

		transactionsExported: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "wallet_tracker_transactions_exported",
				Help: "Transactions written by the last finished run",
			},
		),

		fetchPages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_tracker_fetch_pages_total",
				Help: "Total number of transfer page requests by chain and outcome",
			},
			[]string{"chain", "status"},
		),

		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wallet_tracker_fetch_page_duration_seconds",
				Help:    "Duration of transfer page requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"chain"},
		),
	}
}

// MustRegister registers all metrics with the provided registry
func (m *Metrics) MustRegister(registry *prometheus.Registry) {
	registry.MustRegister(
		m.requestDuration,
		m.requestsTotal,
		m.inFlightRequests,
		m.runsTotal,
		m.runDuration,
		m.lastRunTimestamp,
		m.transactionsExported,
		m.fetchPages,
		m.fetchDuration,
	)
}

// RecordRun records one finished aggregation run.
func (m *Metrics) RecordRun(trigger, status string, seconds float64, transactions int) {
	m.runsTotal.WithLabelValues(trigger, status).Inc()
	m.runDuration.Observe(seconds)
	m.lastRunTimestamp.SetToCurrentTime()
	m.transactionsExported.Set(float64(transactions))
}

// RecordFetchPage records one page request against the transfer API.
func (m *Metrics) RecordFetchPage(chain, status string, seconds float64) {
	m.fetchPages.WithLabelValues(chain, status).Inc()
	m.fetchDuration.WithLabelValues(chain).Observe(seconds)
}
