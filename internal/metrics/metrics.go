// Package metrics defines Prometheus metrics for bookrank.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bookrank"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})
)

// Ranking pipeline metrics.
var (
	RankingRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ranking_runs_total",
		Help:      "Ranking pipeline executions by subject kind, period, and outcome.",
	}, []string{"kind", "period", "status"})

	RankingRunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ranking_run_duration_seconds",
		Help:      "Duration of one ranking pipeline execution in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind", "period"})

	RankingEntriesReplaced = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ranking_entries_replaced",
		Help:      "Entries written by the most recent ranking snapshot swap.",
	}, []string{"kind", "period"})

	RankingDroppedSubjectsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ranking_dropped_subjects_total",
		Help:      "Aggregate records dropped because their subject vanished mid-run.",
	})
)

// Scheduler metrics.
var (
	SchedulerSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scheduler_skipped_total",
		Help:      "Trigger firings rejected because a ranking cycle was already in flight.",
	})

	SchedulerNextRunTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scheduler_next_run_timestamp_seconds",
		Help:      "Unix timestamp of the next scheduled ranking cycle.",
	})
)

// Cursor pagination metrics.
var (
	CursorDecodeFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cursor_decode_failures_total",
		Help:      "Pagination requests rejected for a malformed or mismatched cursor.",
	})
)

// Health gauges.
var (
	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 if the last /healthz probe succeeded, 0 otherwise.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 if the last /readyz probe succeeded, 0 otherwise.",
	})
)
