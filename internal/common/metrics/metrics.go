// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for MatchGenerationOutcomes.
const (
	OutcomeWritten               = "written"
	OutcomeSkippedDuplicate      = "skipped_duplicate"
	OutcomeSkippedBelowThreshold = "skipped_below_threshold"
	OutcomeSkippedError          = "skipped_error"
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

	MatchScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "match_scores",
			Help:    "Overall score of every computed candidate/job match",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	MatchGenerationOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_generation_outcomes_total",
			Help: "Per-pair outcomes of missing-match generation",
		},
		[]string{"outcome"},
	)

	ResumeExtractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resume_extractions_total",
			Help: "Resume extractions by status (complete or partial)",
		},
		[]string{"status"},
	)

	MatchCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_cache_requests_total",
			Help: "Match result cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)
