package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initResolutionMetrics() {
	r.ItemsResolvedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "specaudit_items_resolved_total",
			Help: "Total queue items processed by disposition",
		},
		[]string{"disposition"},
	)

	r.SessionDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "specaudit_session_duration_seconds",
			Help:    "Resolution session duration in seconds",
			Buckets: []float64{1, 10, 60, 300, 1800, 3600},
		},
	)

	r.JournalEntriesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "specaudit_journal_entries_total",
			Help: "Total entries appended to the session journal",
		},
	)

	r.WriteFailuresTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "specaudit_write_failures_total",
			Help: "Total transactional write failures",
		},
	)
}
