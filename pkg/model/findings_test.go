package model

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestAlignmentFromConfidence(t *testing.T) {
	cases := []struct {
		confidence Confidence
		want       int
	}{
		{ConfidenceHigh, 25},
		{ConfidenceMedium, 55},
		{ConfidenceLow, 80},
		{Confidence("unknown"), 80},
	}
	for _, tc := range cases {
		if got := AlignmentFromConfidence(tc.confidence); got != tc.want {
			t.Errorf("AlignmentFromConfidence(%s) = %d, want %d", tc.confidence, got, tc.want)
		}
	}
}

func TestAlignmentFromGapPriority(t *testing.T) {
	cases := []struct {
		priority Priority
		want     int
	}{
		{PriorityHigh, 25},
		{PriorityMedium, 55},
		{PriorityLow, 75},
		{Priority("unknown"), 75},
	}
	for _, tc := range cases {
		if got := AlignmentFromGapPriority(tc.priority); got != tc.want {
			t.Errorf("AlignmentFromGapPriority(%s) = %d, want %d", tc.priority, got, tc.want)
		}
	}
}

// TestScoreInvariants verifies the routing invariants of the score mappings:
// only low-confidence duplicates ever reach the critical-review threshold.
func TestScoreInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("gap alignment always routes urgent", prop.ForAll(
		func(p string) bool {
			return AlignmentFromGapPriority(Priority(p)) < CriticalReviewThreshold
		},
		gen.OneConstOf("high", "medium", "low", "", "bogus"),
	))

	properties.Property("duplicate alignment is one of the fixed tiers", prop.ForAll(
		func(c string) bool {
			score := AlignmentFromConfidence(Confidence(c))
			return score == AlignmentDuplicateHigh ||
				score == AlignmentDuplicateMedium ||
				score == AlignmentDuplicateLow
		},
		gen.OneConstOf("high", "medium", "low", "", "bogus"),
	))

	properties.TestingRun(t)
}

func TestGapCandidateKey(t *testing.T) {
	a := GapCandidate{SourceType: "service.api", Predicate: "owns", DestType: "data.store"}
	b := GapCandidate{SourceType: "service.api", Predicate: "owns", DestType: "data.store", Reasoning: "different"}
	if a.Key() != b.Key() {
		t.Error("Key must ignore non-identity fields")
	}

	c := GapCandidate{SourceType: "data.store", Predicate: "owns", DestType: "service.api"}
	if a.Key() == c.Key() {
		t.Error("Key must distinguish direction")
	}
}

func TestRecommendationToGapCandidate(t *testing.T) {
	rec := Recommendation{
		SourceType:     "service.api",
		DestType:       "data.store",
		Predicate:      "stores-in",
		Justification:  "persists session state",
		Priority:       PriorityHigh,
		ImpactScore:    8,
		AlignmentScore: 25,
	}

	gap := rec.ToGapCandidate()
	if !gap.External {
		t.Error("Converted recommendations must be marked external")
	}
	if gap.Reasoning != rec.Justification {
		t.Errorf("Expected justification to become reasoning, got %q", gap.Reasoning)
	}
	if gap.Key() != "service.api|stores-in|data.store" {
		t.Errorf("Unexpected key %s", gap.Key())
	}
}

func TestRelationshipID(t *testing.T) {
	got := RelationshipID("service.api", "stores-in", "data.store")
	if got != "service.api.stores-in.data.store" {
		t.Errorf("Unexpected id %s", got)
	}
}

func TestAuditReportTotalFindings(t *testing.T) {
	r := AuditReport{
		Gaps:       []GapCandidate{{}, {}},
		Duplicates: []DuplicateCandidate{{}},
		Balance:    BalanceSummary{Issues: []BalanceIssue{{}}},
		Connectivity: ConnectivitySummary{
			Issues: []ConnectivityIssue{{}, {}, {}},
		},
		Completeness: []CompletenessIssue{{}},
	}
	// Completeness issues are load diagnostics, not actionable findings.
	if got := r.TotalFindings(); got != 7 {
		t.Errorf("TotalFindings = %d, want 7", got)
	}
}
