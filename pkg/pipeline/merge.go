package pipeline

import (
	"sort"

	"github.com/tinkermonkey/specaudit/pkg/model"
)

// MergeRecommendations folds external recommendations into an existing
// gap-candidate set, deduplicating on (source, predicate, destination).
// Merging the same recommendation twice is a no-op, so the operation is
// idempotent.
func MergeRecommendations(gaps []model.GapCandidate, recs []model.Recommendation) []model.GapCandidate {
	seen := make(map[string]bool, len(gaps))
	out := append([]model.GapCandidate(nil), gaps...)
	for _, gap := range gaps {
		seen[gap.Key()] = true
	}

	for _, rec := range recs {
		cand := rec.ToGapCandidate()
		if seen[cand.Key()] {
			continue
		}
		seen[cand.Key()] = true
		out = append(out, cand)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}
