// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	MatchingCandidates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_candidates_total",
			Help: "Candidates seen per ranking stage (input, eligible)",
		},
		[]string{"stage"},
	)

	MatchingRankDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_rank_duration_seconds",
			Help:    "Duration of a full ranking pipeline run",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		},
	)

	MatchingSuggestionsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_suggestions_returned",
			Help:    "Number of suggestions returned per ranking request",
			Buckets: prometheus.LinearBuckets(0, 2, 8),
		},
	)

	PoolAdmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_pool_admissions_total",
			Help: "Tickets admitted to a pool roster",
		},
		[]string{"pool"},
	)

	TicketsPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_tickets_purged_total",
			Help: "Expired tickets removed from the ticket store",
		},
	)

	TicketsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "matching_tickets_active",
			Help: "Tickets currently held by the ticket store",
		},
	)

	EnrichmentOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_enrichment_total",
			Help: "Enrichment stage outcomes (applied, skipped, failed, timeout)",
		},
		[]string{"outcome"},
	)
)
