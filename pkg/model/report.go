package model

import "time"

// AuditReport is the canonical aggregate every serialization derives from.
// All renderers consume this one object, so content never diverges between
// the structured, narrative, and plain-text forms.
type AuditReport struct {
	GeneratedAt  time.Time            `json:"generatedAt"`
	Scope        string               `json:"scope,omitempty"`
	Coverage     []CoverageMetric     `json:"coverage"`
	Gaps         []GapCandidate       `json:"gaps"`
	Duplicates   []DuplicateCandidate `json:"duplicates"`
	Balance      BalanceSummary       `json:"balance"`
	Connectivity ConnectivitySummary  `json:"connectivity"`
	Completeness []CompletenessIssue  `json:"completeness,omitempty"`
}

// TotalFindings counts every actionable finding in the report.
func (r *AuditReport) TotalFindings() int {
	return len(r.Gaps) + len(r.Duplicates) + len(r.Balance.Issues) + len(r.Connectivity.Issues)
}

// PipelineSummary is the differential between a before and after audit.
type PipelineSummary struct {
	RelationshipsAdded int     `json:"relationshipsAdded"`
	GapsResolved       int     `json:"gapsResolved"`
	DensityDelta       float64 `json:"densityDelta"`
	EvaluatorSkipped   bool    `json:"evaluatorSkipped,omitempty"`
}

// PipelineResult bundles the before/after reports with their differential.
// After is nil when the external evaluation step was skipped or unavailable.
type PipelineResult struct {
	Before  *AuditReport    `json:"before"`
	After   *AuditReport    `json:"after,omitempty"`
	Summary PipelineSummary `json:"summary"`
}
