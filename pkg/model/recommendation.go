package model

// Recommendation is one record returned by the external recommendation
// source. It is structurally compatible with GapCandidate; ToGapCandidate
// performs the field renaming.
type Recommendation struct {
	SourceType     string   `json:"sourceType"`
	DestType       string   `json:"destType"`
	Predicate      string   `json:"predicate"`
	Justification  string   `json:"justification"`
	Priority       Priority `json:"priority"`
	Standard       string   `json:"standard,omitempty"`
	ImpactScore    float64  `json:"impactScore"`
	AlignmentScore int      `json:"alignmentScore"`
}

// ToGapCandidate converts an external recommendation into the gap-candidate
// shape used by the report and the resolution queue.
func (r Recommendation) ToGapCandidate() GapCandidate {
	return GapCandidate{
		SourceType:     r.SourceType,
		DestType:       r.DestType,
		Predicate:      r.Predicate,
		Priority:       r.Priority,
		ImpactScore:    r.ImpactScore,
		AlignmentScore: r.AlignmentScore,
		Reasoning:      r.Justification,
		Standard:       r.Standard,
		External:       true,
	}
}
