package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initAuditMetrics() {
	r.AuditRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "specaudit_audit_runs_total",
			Help: "Total number of audit runs",
		},
		[]string{"status"},
	)

	r.AuditDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "specaudit_audit_duration_seconds",
			Help:    "Audit run duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
		},
	)

	r.FindingsTotal = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "specaudit_findings",
			Help: "Findings in the most recent report by kind",
		},
		[]string{"kind"},
	)

	r.LayerIsolation = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "specaudit_layer_isolation_percent",
			Help: "Percentage of node types in the layer with no relationships",
		},
		[]string{"layer"},
	)

	r.LayerDensity = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "specaudit_layer_density",
			Help: "Relationships per node type in the layer",
		},
		[]string{"layer"},
	)

	r.PredicateUtilization = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "specaudit_predicate_utilization_percent",
			Help: "Percentage of catalog predicates used by at least one relationship",
		},
	)

	r.GraphComponents = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "specaudit_graph_components",
			Help: "Connected components in the relationship graph",
		},
	)

	r.IsolatedNodeTypes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "specaudit_isolated_node_types",
			Help: "Node types with no relationships at all",
		},
	)
}
