package resolution

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/tinkermonkey/specaudit/pkg/model"
)

// Alignment scores assigned to node findings, which carry no detector
// confidence of their own. Connectivity problems are the most urgent class;
// balance outliers sit mid-band.
const (
	alignmentConnectivity = 25
	alignmentBalance      = 55
)

// Queue is one report's findings split into the urgent-remediation queue
// (ascending alignment: worst-aligned first) and the critical-review queue
// reserved for already-well-aligned items (descending alignment).
type Queue struct {
	Urgent         []*model.QueueItem
	CriticalReview []*model.QueueItem
}

// Len returns the total number of queued items.
func (q *Queue) Len() int {
	return len(q.Urgent) + len(q.CriticalReview)
}

// Build turns a loaded report into a prioritized resolution queue. Every
// item is classified through the keyword rules; routing depends only on the
// alignment score and the critical-review threshold.
func Build(r *model.AuditReport) *Queue {
	var items []*model.QueueItem

	for i := range r.Gaps {
		gap := r.Gaps[i]
		items = append(items, &model.QueueItem{
			ID:             uuid.NewString(),
			Kind:           model.FindingGap,
			AlignmentScore: gap.AlignmentScore,
			Suggestion: fmt.Sprintf("Create relationship %s -(%s)-> %s: %s",
				gap.SourceType, gap.Predicate, gap.DestType, gap.Reasoning),
			Gap: &gap,
		})
	}

	for i := range r.Duplicates {
		dup := r.Duplicates[i]
		items = append(items, &model.QueueItem{
			ID:             uuid.NewString(),
			Kind:           model.FindingDuplicate,
			AlignmentScore: dup.AlignmentScore,
			Suggestion: fmt.Sprintf("Remove duplicate relationship %s (keep %s): %s",
				dup.RelationshipB, dup.RelationshipA, dup.Reasoning),
			Duplicate: &dup,
		})
	}

	for i := range r.Balance.Issues {
		issue := r.Balance.Issues[i]
		suggestion := fmt.Sprintf("Clarify the role of %s: %s", issue.NodeTypeID, issue.Reasoning)
		if issue.Overconnected {
			suggestion = fmt.Sprintf("Clarify whether %s should be split: %s", issue.NodeTypeID, issue.Reasoning)
		}
		items = append(items, &model.QueueItem{
			ID:             uuid.NewString(),
			Kind:           model.FindingBalance,
			AlignmentScore: alignmentBalance,
			Suggestion:     suggestion,
			Balance:        &issue,
		})
	}

	for i := range r.Connectivity.Issues {
		issue := r.Connectivity.Issues[i]
		items = append(items, &model.QueueItem{
			ID:             uuid.NewString(),
			Kind:           model.FindingConnectivity,
			AlignmentScore: alignmentConnectivity,
			Suggestion:     connectivitySuggestion(issue),
			Connectivity:   &issue,
		})
	}

	q := &Queue{}
	for _, item := range items {
		item.Action = Classify(item.Suggestion)
		item.ROI = roiFor(item)
		if item.AlignmentScore >= model.CriticalReviewThreshold {
			item.Queue = model.QueueCriticalReview
			q.CriticalReview = append(q.CriticalReview, item)
		} else {
			item.Queue = model.QueueUrgent
			q.Urgent = append(q.Urgent, item)
		}
	}

	sort.SliceStable(q.Urgent, func(i, j int) bool {
		if q.Urgent[i].AlignmentScore != q.Urgent[j].AlignmentScore {
			return q.Urgent[i].AlignmentScore < q.Urgent[j].AlignmentScore
		}
		return q.Urgent[i].Suggestion < q.Urgent[j].Suggestion
	})
	sort.SliceStable(q.CriticalReview, func(i, j int) bool {
		if q.CriticalReview[i].AlignmentScore != q.CriticalReview[j].AlignmentScore {
			return q.CriticalReview[i].AlignmentScore > q.CriticalReview[j].AlignmentScore
		}
		return q.CriticalReview[i].Suggestion < q.CriticalReview[j].Suggestion
	})
	return q
}

func connectivitySuggestion(issue model.ConnectivityIssue) string {
	switch issue.Kind {
	case model.IssueIsolatedNodeType:
		return fmt.Sprintf("Connect %s to the rest of the graph: %s", issue.NodeTypeID, issue.Detail)
	case model.IssueInvertedDirection:
		return fmt.Sprintf("Reverse or remove %s: %s", issue.Relationship, issue.Detail)
	default:
		return fmt.Sprintf("Review graph fragmentation: %s", issue.Detail)
	}
}

// roiFor ranks expected improvement per unit of review effort: cheap
// mechanical fixes rank high, judgment-heavy rewording ranks low.
func roiFor(item *model.QueueItem) model.ROITier {
	switch item.Action {
	case model.ActionCreateRelationship, model.ActionRemoveDuplicate:
		return model.ROIHigh
	case model.ActionMove, model.ActionRemove, model.ActionEnumCollapse, model.ActionAddAttribute:
		return model.ROIMedium
	default:
		return model.ROILow
	}
}
