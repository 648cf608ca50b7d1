package model

// Priority ranks a proposed change.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Confidence tiers a detector's certainty in a finding.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Alignment score boundaries. Findings at or above CriticalReviewThreshold
// route to the critical-review queue; everything below routes to the urgent
// remediation queue.
const (
	AlignmentDuplicateHigh   = 25
	AlignmentDuplicateMedium = 55
	AlignmentDuplicateLow    = 80
	AlignmentGapLow          = 75

	CriticalReviewThreshold = 80
)

// AlignmentFromConfidence maps a duplicate confidence tier to its alignment
// score. The mapping is fixed: high→25, medium→55, low→80.
func AlignmentFromConfidence(c Confidence) int {
	switch c {
	case ConfidenceHigh:
		return AlignmentDuplicateHigh
	case ConfidenceMedium:
		return AlignmentDuplicateMedium
	default:
		return AlignmentDuplicateLow
	}
}

// AlignmentFromGapPriority maps a gap priority to its alignment score.
// Low-priority gaps score 75, which keeps every gap below the
// critical-review threshold; only duplicates can reach that queue.
func AlignmentFromGapPriority(p Priority) int {
	switch p {
	case PriorityHigh:
		return AlignmentDuplicateHigh
	case PriorityMedium:
		return AlignmentDuplicateMedium
	default:
		return AlignmentGapLow
	}
}

// CoverageMetric summarizes structural coverage for one layer.
type CoverageMetric struct {
	LayerID              string  `json:"layerId"`
	NodeTypeCount        int     `json:"nodeTypeCount"`
	IntraLayerRelCount   int     `json:"intraLayerRelCount"`
	InterLayerRelCount   int     `json:"interLayerRelCount"`
	IsolatedCount        int     `json:"isolatedCount"`
	IsolationPercentage  float64 `json:"isolationPercentage"`
	Density              float64 `json:"density"`
	PredicateUtilization float64 `json:"predicateUtilization"`
}

// GapCandidate proposes a missing relationship type.
type GapCandidate struct {
	SourceType     string   `json:"sourceType"`
	DestType       string   `json:"destType"`
	Predicate      string   `json:"predicate"`
	Priority       Priority `json:"priority"`
	ImpactScore    float64  `json:"impactScore"`
	AlignmentScore int      `json:"alignmentScore"`
	Reasoning      string   `json:"reasoning"`
	Standard       string   `json:"standard,omitempty"`
	External       bool     `json:"external,omitempty"`
}

// Key identifies a gap candidate for deduplication.
func (g GapCandidate) Key() string {
	return g.SourceType + "|" + g.Predicate + "|" + g.DestType
}

// DuplicateCandidate flags two relationship types that may express the same
// edge. SiblingCount records how many other distinct relationship types
// already exist between the same endpoint pair; it is surfaced to reviewers
// as counter-evidence and never changes the confidence tier.
type DuplicateCandidate struct {
	RelationshipA  string     `json:"relationshipA"`
	RelationshipB  string     `json:"relationshipB"`
	SourceType     string     `json:"sourceType"`
	DestType       string     `json:"destType"`
	Confidence     Confidence `json:"confidence"`
	AlignmentScore int        `json:"alignmentScore"`
	Similarity     float64    `json:"similarity"`
	SiblingCount   int        `json:"siblingCount"`
	Reasoning      string     `json:"reasoning"`
}

// BalanceIssue flags a node type whose relationship count is a statistical
// outlier against its layer median.
type BalanceIssue struct {
	LayerID      string  `json:"layerId"`
	NodeTypeID   string  `json:"nodeTypeId"`
	RelCount     int     `json:"relCount"`
	LayerMedian  float64 `json:"layerMedian"`
	Deviation    float64 `json:"deviation"`
	Overconnected bool   `json:"overconnected"`
	Reasoning    string  `json:"reasoning"`
}

// ConnectivityIssueKind enumerates the connectivity problems the analyzer
// reports.
type ConnectivityIssueKind string

const (
	IssueIsolatedNodeType  ConnectivityIssueKind = "isolated_node_type"
	IssueFragmentedGraph   ConnectivityIssueKind = "fragmented_graph"
	IssueInvertedDirection ConnectivityIssueKind = "inverted_direction"
)

// ConnectivityIssue reports a whole-graph connectivity problem.
type ConnectivityIssue struct {
	Kind       ConnectivityIssueKind `json:"kind"`
	NodeTypeID string                `json:"nodeTypeId,omitempty"`
	Relationship string              `json:"relationship,omitempty"`
	Detail     string                `json:"detail"`
}

// BalanceSummary aggregates per-layer relationship distribution.
type BalanceSummary struct {
	Issues []BalanceIssue `json:"issues"`
}

// ConnectivitySummary aggregates whole-graph connectivity analysis.
type ConnectivitySummary struct {
	ComponentCount int                 `json:"componentCount"`
	LargestComponent int               `json:"largestComponent"`
	IsolatedTypes  []string            `json:"isolatedTypes"`
	Issues         []ConnectivityIssue `json:"issues"`
}

// CompletenessIssue records a schema file that failed to load or link.
// Structural problems surface as report data; they never fail the run.
type CompletenessIssue struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}
