package metrics

import (
	"time"

	"github.com/tinkermonkey/specaudit/pkg/model"
)

// RecordAuditRun records one audit run with its duration
func (r *Registry) RecordAuditRun(status string, duration time.Duration) {
	r.AuditRunsTotal.WithLabelValues(status).Inc()
	r.AuditDuration.Observe(duration.Seconds())
}

// ObserveReport updates the gauges that mirror the most recent report
func (r *Registry) ObserveReport(report *model.AuditReport) {
	r.FindingsTotal.WithLabelValues("gap").Set(float64(len(report.Gaps)))
	r.FindingsTotal.WithLabelValues("duplicate").Set(float64(len(report.Duplicates)))
	r.FindingsTotal.WithLabelValues("balance").Set(float64(len(report.Balance.Issues)))
	r.FindingsTotal.WithLabelValues("connectivity").Set(float64(len(report.Connectivity.Issues)))
	r.FindingsTotal.WithLabelValues("completeness").Set(float64(len(report.Completeness)))

	var utilization float64
	for _, cm := range report.Coverage {
		r.LayerIsolation.WithLabelValues(cm.LayerID).Set(cm.IsolationPercentage)
		r.LayerDensity.WithLabelValues(cm.LayerID).Set(cm.Density)
		utilization = cm.PredicateUtilization
	}
	r.PredicateUtilization.Set(utilization)
	r.GraphComponents.Set(float64(report.Connectivity.ComponentCount))
	r.IsolatedNodeTypes.Set(float64(len(report.Connectivity.IsolatedTypes)))
}

// RecordEvaluatorCall records one external evaluator call
func (r *Registry) RecordEvaluatorCall(status string, duration time.Duration) {
	r.EvaluatorCallsTotal.WithLabelValues(status).Inc()
	r.EvaluatorCallDuration.Observe(duration.Seconds())
}

// RecordPipelineRun records the outcome of a pipeline run
func (r *Registry) RecordPipelineRun(result *model.PipelineResult) {
	if result.Summary.EvaluatorSkipped {
		r.EvaluatorSkipsTotal.Inc()
		return
	}
	r.RelationshipsAdded.Add(float64(result.Summary.RelationshipsAdded))
}

// RecordResolution records one processed queue item. Journaled tracks
// executed items rather than the disposition alone, since a no-automation
// result is journaled with a skipped disposition.
func (r *Registry) RecordResolution(disposition model.Disposition, journaled bool) {
	r.ItemsResolvedTotal.WithLabelValues(string(disposition)).Inc()
	if journaled {
		r.JournalEntriesTotal.Inc()
	}
}

// RecordSession records a finished resolution session
func (r *Registry) RecordSession(duration time.Duration) {
	r.SessionDuration.Observe(duration.Seconds())
}

// RecordWriteFailure records a transactional write failure
func (r *Registry) RecordWriteFailure() {
	r.WriteFailuresTotal.Inc()
}
