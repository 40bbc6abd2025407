package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for BetPool.
type Metrics struct {
	// --- Settlement ---
	MatchesSettled prometheus.Counter
	RecordsSettled prometheus.Counter
	SettleDuration prometheus.Histogram
	SettleRejected *prometheus.CounterVec

	// --- Rebuild ---
	RebuildRuns     prometheus.Counter
	RebuildDuration prometheus.Histogram
	RebuildSkipped  prometheus.Counter
	RebuildRecords  prometheus.Gauge

	// --- Stores ---
	StoreWriteDuration *prometheus.HistogramVec
	StoreErrors        *prometheus.CounterVec

	// --- Ingestion ---
	IngestMessages *prometheus.CounterVec
	PublishErrors  prometheus.Counter

	// --- HTTP ---
	HTTPRequests *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	durationBuckets := []float64{
		0.00001, 0.00005, 0.0001, 0.0005, 0.001,
		0.005, 0.01, 0.05, 0.1, 0.5, 1,
	}

	return &Metrics{
		MatchesSettled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pool_matches_settled_total",
			Help: "Matches settled incrementally",
		}),
		RecordsSettled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pool_bet_records_settled_total",
			Help: "Bet records produced by incremental settlement",
		}),
		SettleDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pool_settle_duration_seconds",
			Help:    "Time to settle a single match",
			Buckets: durationBuckets,
		}),
		SettleRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pool_settle_rejected_total",
			Help: "Match submissions rejected before settlement",
		}, []string{"reason"}),

		RebuildRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pool_rebuild_runs_total",
			Help: "Full result rebuilds executed",
		}),
		RebuildDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pool_rebuild_duration_seconds",
			Help:    "Time to rebuild results from full match history",
			Buckets: durationBuckets,
		}),
		RebuildSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pool_rebuild_matches_skipped_total",
			Help: "Malformed matches skipped during rebuilds",
		}),
		RebuildRecords: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "pool_rebuild_last_records",
			Help: "Bet records produced by the last rebuild",
		}),

		StoreWriteDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pool_store_write_duration_seconds",
			Help:    "Store write latency by operation",
			Buckets: durationBuckets,
		}, []string{"op"}),
		StoreErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pool_store_errors_total",
			Help: "Store failures by operation",
		}, []string{"op"}),

		IngestMessages: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pool_ingest_messages_total",
			Help: "NATS messages consumed by subject and outcome",
		}, []string{"subject", "outcome"}),
		PublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pool_publish_errors_total",
			Help: "Outbound publish failures",
		}),

		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pool_http_requests_total",
			Help: "HTTP requests by route and status class",
		}, []string{"route", "status"}),
	}
}
