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
)

var (
	ESGScoresComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esg_scores_computed_total",
			Help: "Total number of ESG score computations by source",
		},
		[]string{"source"},
	)

	ESGScoreCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esg_score_cache_hits_total",
			Help: "Score cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	ESGProjectionsOverBudget = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "esg_projection_over_budget_total",
			Help: "Retrofit projections whose plan cost exceeded the budget",
		},
	)

	ESGSessionPointsAwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esg_session_points_awarded_total",
			Help: "Gamification points awarded by event",
		},
		[]string{"event"},
	)

	ESGScheduledRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "esg_scheduled_runs_total",
			Help: "Scheduled maintenance runs by job and status",
		},
		[]string{"job", "status"},
	)
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)
