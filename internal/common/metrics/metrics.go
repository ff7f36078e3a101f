package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CreditAssessments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_assessments_total",
			Help: "Total number of credit assessments by status",
		},
		[]string{"status"},
	)

	UnderwritingDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "underwriting_decisions_total",
			Help: "Total number of underwriting decisions by outcome",
		},
		[]string{"outcome"},
	)

	TaskAssignments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_assignments_total",
			Help: "Total number of task assignment attempts by result",
		},
		[]string{"result"},
	)

	TaskQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "task_queue_depth",
			Help: "Number of tasks waiting for officer capacity",
		},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_stage_duration_seconds",
			Help: "Duration of pipeline stage processing in seconds",
		},
		[]string{"stage"},
	)
)
