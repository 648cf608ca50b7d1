package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Audit Metrics
	AuditRunsTotal       *prometheus.CounterVec
	AuditDuration        prometheus.Histogram
	FindingsTotal        *prometheus.GaugeVec
	LayerIsolation       *prometheus.GaugeVec
	LayerDensity         *prometheus.GaugeVec
	PredicateUtilization prometheus.Gauge
	GraphComponents      prometheus.Gauge
	IsolatedNodeTypes    prometheus.Gauge

	// Pipeline Metrics
	EvaluatorCallsTotal   *prometheus.CounterVec
	EvaluatorCallDuration prometheus.Histogram
	RecommendationsMerged prometheus.Counter
	RelationshipsAdded    prometheus.Counter
	EvaluatorSkipsTotal   prometheus.Counter

	// Resolution Metrics
	ItemsResolvedTotal  *prometheus.CounterVec
	SessionDuration     prometheus.Histogram
	JournalEntriesTotal prometheus.Counter
	WriteFailuresTotal  prometheus.Counter

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initAuditMetrics()
	r.initPipelineMetrics()
	r.initResolutionMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
