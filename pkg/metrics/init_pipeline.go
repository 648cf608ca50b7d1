package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPipelineMetrics() {
	r.EvaluatorCallsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "specaudit_evaluator_calls_total",
			Help: "Total number of external evaluator calls",
		},
		[]string{"status"},
	)

	r.EvaluatorCallDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "specaudit_evaluator_call_duration_seconds",
			Help:    "External evaluator call duration in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 5.0, 15.0, 30.0, 60.0},
		},
	)

	r.RecommendationsMerged = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "specaudit_recommendations_merged_total",
			Help: "Total evaluator recommendations merged into reports",
		},
	)

	r.RelationshipsAdded = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "specaudit_relationships_added_total",
			Help: "Total relationships added by pipeline simulation",
		},
	)

	r.EvaluatorSkipsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "specaudit_evaluator_skips_total",
			Help: "Total pipeline runs that proceeded without the evaluator",
		},
	)
}
