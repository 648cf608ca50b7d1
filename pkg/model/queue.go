package model

// ActionKind classifies what a finding's suggestion asks for. The set is
// closed; the classifier maps free text onto it with ordered keyword rules.
type ActionKind string

const (
	ActionMove               ActionKind = "MOVE"
	ActionEnumCollapse       ActionKind = "ENUM_COLLAPSE"
	ActionRemove             ActionKind = "REMOVE"
	ActionClarify            ActionKind = "CLARIFY"
	ActionAddAttribute       ActionKind = "ADD_ATTRIBUTE"
	ActionCreateRelationship ActionKind = "CREATE_RELATIONSHIP"
	ActionRemoveDuplicate    ActionKind = "REMOVE_DUPLICATE"
	ActionOther              ActionKind = "OTHER"
)

// ROITier ranks how much structural improvement an item buys per unit of
// review effort.
type ROITier string

const (
	ROIHigh   ROITier = "high"
	ROIMedium ROITier = "medium"
	ROILow    ROITier = "low"
)

// Disposition records how a queue item was resolved in a session.
type Disposition string

const (
	DispositionApplied            Disposition = "applied"
	DispositionAppliedAlternative Disposition = "applied_alternative"
	DispositionSkipped            Disposition = "skipped"
	DispositionCustom             Disposition = "custom"
	DispositionAlreadyImplemented Disposition = "ALREADY_IMPLEMENTED"
	DispositionConflict           Disposition = "conflict"
)

// QueueKind names the sub-queue an item routes to.
type QueueKind string

const (
	QueueUrgent         QueueKind = "urgent"
	QueueCriticalReview QueueKind = "critical_review"
)

// FindingKind tags which variant a queue item wraps.
type FindingKind string

const (
	FindingGap          FindingKind = "gap"
	FindingDuplicate    FindingKind = "duplicate"
	FindingBalance      FindingKind = "balance"
	FindingConnectivity FindingKind = "connectivity"
)

// QueueItem is one prioritized entry in a resolution session. Exactly one of
// the finding pointers is set, matching Kind.
type QueueItem struct {
	ID             string              `json:"id"`
	Kind           FindingKind         `json:"kind"`
	Queue          QueueKind           `json:"queue"`
	Action         ActionKind          `json:"action"`
	ROI            ROITier             `json:"roi"`
	AlignmentScore int                 `json:"alignmentScore"`
	Suggestion     string              `json:"suggestion"`
	Disposition    Disposition         `json:"disposition,omitempty"`
	Gap            *GapCandidate       `json:"gap,omitempty"`
	Duplicate      *DuplicateCandidate `json:"duplicate,omitempty"`
	Balance        *BalanceIssue       `json:"balance,omitempty"`
	Connectivity   *ConnectivityIssue  `json:"connectivity,omitempty"`
}
