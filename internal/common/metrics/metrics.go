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

	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pathway_evaluations_total",
			Help: "Total pathway evaluations by student level and outcome",
		},
		[]string{"student_level", "outcome"},
	)

	EvaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pathway_evaluation_duration_seconds",
			Help:    "Duration of one full pathway evaluation",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecommendationCount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pathway_recommendation_count",
			Help:    "Recommendations produced per evaluation",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
		},
	)

	UniversityOptionsCount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pathway_university_options_count",
			Help:    "Global university options produced per evaluation",
			Buckets: []float64{0, 1, 2, 4, 6, 8},
		},
	)
)
