package resolution

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tinkermonkey/specaudit/pkg/logging"
	"github.com/tinkermonkey/specaudit/pkg/model"
	"github.com/tinkermonkey/specaudit/pkg/schema"
)

// Engine walks a resolution queue item by item, asking the configured
// chooser for each decision and applying the chosen action against the live
// specification files. State is re-read from disk before every apply, so a
// finding that was fixed out of band since the report resolves as already
// implemented instead of producing a duplicate edit.
type Engine struct {
	dir       string
	journal   *Journal
	chooser   Chooser
	logger    logging.Logger
	sessionID string
}

// ItemResult captures how one queue item ended. Journaled distinguishes
// executed items from chooser skips: a no-automation result carries the
// skipped disposition but still writes its journal entry.
type ItemResult struct {
	ItemID      string            `json:"itemId"`
	Kind        model.FindingKind `json:"kind"`
	Action      model.ActionKind  `json:"action"`
	Disposition model.Disposition `json:"disposition"`
	Reasoning   string            `json:"reasoning,omitempty"`
	Files       []string          `json:"files,omitempty"`
	Journaled   bool              `json:"journaled"`
}

// SessionSummary aggregates one engine run.
type SessionSummary struct {
	SessionID          string       `json:"sessionId"`
	Applied            int          `json:"applied"`
	AppliedAlternative int          `json:"appliedAlternative"`
	Custom             int          `json:"custom"`
	Skipped            int          `json:"skipped"`
	AlreadyImplemented int          `json:"alreadyImplemented"`
	Conflicts          int          `json:"conflicts"`
	Results            []ItemResult `json:"results"`
}

// NewEngine opens a resolution session over the specification at dir. The
// session journal lives beneath the same directory and survives across
// sessions.
func NewEngine(dir string, chooser Chooser, logger logging.Logger) (*Engine, error) {
	journal, err := OpenJournal(dir)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	sessionID := uuid.NewString()
	return &Engine{
		dir:       dir,
		journal:   journal,
		chooser:   chooser,
		logger:    logger.With(logging.Session(sessionID)),
		sessionID: sessionID,
	}, nil
}

// Close releases the session journal.
func (e *Engine) Close() error {
	return e.journal.Close()
}

// Run processes the urgent queue and then the critical-review queue. A
// conflict blocks only its own item; a write failure aborts the run with the
// queue position in the error so the reviewer knows exactly where the
// session stopped. Skipped items leave no trace on disk, not even a journal
// entry.
func (e *Engine) Run(ctx context.Context, q *Queue) (*SessionSummary, error) {
	summary := &SessionSummary{SessionID: e.sessionID}
	items := make([]*model.QueueItem, 0, q.Len())
	items = append(items, q.Urgent...)
	items = append(items, q.CriticalReview...)

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		action, err := e.chooser.Choose(item)
		if err != nil {
			return summary, fmt.Errorf("item %d of %d: %w", i+1, len(items), err)
		}
		if action.Choice == ChoiceSkip {
			item.Disposition = model.DispositionSkipped
			summary.Skipped++
			summary.Results = append(summary.Results, ItemResult{
				ItemID:      item.ID,
				Kind:        item.Kind,
				Action:      item.Action,
				Disposition: model.DispositionSkipped,
			})
			continue
		}

		result, err := e.execute(item, action)
		if err != nil {
			return summary, fmt.Errorf("item %d of %d (%s): %w", i+1, len(items), item.ID, err)
		}
		item.Disposition = result.Disposition
		summary.Results = append(summary.Results, result)
		switch result.Disposition {
		case model.DispositionApplied:
			summary.Applied++
		case model.DispositionAppliedAlternative:
			summary.AppliedAlternative++
		case model.DispositionCustom:
			summary.Custom++
		case model.DispositionSkipped:
			summary.Skipped++
		case model.DispositionAlreadyImplemented:
			summary.AlreadyImplemented++
		case model.DispositionConflict:
			summary.Conflicts++
		}
	}

	e.logger.Info("resolution session complete",
		logging.Int("applied", summary.Applied+summary.AppliedAlternative+summary.Custom),
		logging.Int("skipped", summary.Skipped),
		logging.Int("conflicts", summary.Conflicts))
	return summary, nil
}

// execute re-reads the specification, plans the action against that live
// state, applies the transaction, and journals the disposition. Exactly one
// journal entry is written per executed item.
func (e *Engine) execute(item *model.QueueItem, action Action) (ItemResult, error) {
	g, err := schema.Load(e.dir)
	if err != nil {
		return ItemResult{}, fmt.Errorf("failed to reload specification: %w", err)
	}

	p, err := e.planFor(g, item, action)
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			e.logger.Warn("action conflict, item blocked",
				logging.String("item", item.ID),
				logging.String("target", conflict.Target),
				logging.String("reason", conflict.Reason))
			p = plan{disposition: model.DispositionConflict, reasoning: conflict.Error()}
		} else {
			return ItemResult{}, err
		}
	}

	files := p.tx.Files()
	if !p.tx.Empty() {
		if err := p.tx.Apply(); err != nil {
			return ItemResult{}, err
		}
	}

	if _, err := e.journal.Append(JournalEntry{
		SessionID:   e.sessionID,
		ItemID:      item.ID,
		Kind:        item.Kind,
		Action:      item.Action,
		Disposition: p.disposition,
		Reasoning:   p.reasoning,
		Files:       files,
	}); err != nil {
		return ItemResult{}, err
	}

	e.logger.Info("item resolved",
		logging.String("item", item.ID),
		logging.String("disposition", string(p.disposition)),
		logging.Count(len(files)))
	return ItemResult{
		ItemID:      item.ID,
		Kind:        item.Kind,
		Action:      item.Action,
		Disposition: p.disposition,
		Reasoning:   p.reasoning,
		Files:       files,
		Journaled:   true,
	}, nil
}

// planFor maps one (item, choice) pair to a concrete plan. Findings without
// enough structure to automate resolve as skipped with an explanation; the
// reviewer can still act on them through a custom command.
func (e *Engine) planFor(g *schema.Graph, item *model.QueueItem, action Action) (plan, error) {
	if action.Choice == ChoiceCustom {
		p, err := e.planCustom(g, action.Custom)
		if err != nil {
			return plan{}, err
		}
		if p.disposition == model.DispositionApplied || p.disposition == model.DispositionAppliedAlternative {
			p.disposition = model.DispositionCustom
		}
		return p, nil
	}

	alternative := action.Choice == ChoiceApplyAlternative
	switch item.Action {
	case model.ActionCreateRelationship:
		if item.Gap == nil {
			return noAutomation("no concrete relationship proposal; resolve with a custom create command")
		}
		return planCreateRelationship(g, item.Gap, alternative)

	case model.ActionRemoveDuplicate:
		if item.Duplicate == nil {
			return noAutomation("no duplicate pair attached to this item")
		}
		// Primary removes the newer edge B; the alternative keeps B and
		// removes A instead.
		if alternative {
			return planRemoveRelationship(g, item.Duplicate.RelationshipA, model.DispositionAppliedAlternative)
		}
		return planRemoveRelationship(g, item.Duplicate.RelationshipB, model.DispositionApplied)

	case model.ActionRemove:
		if item.Connectivity != nil && item.Connectivity.Relationship != "" {
			if alternative {
				return planReverseRelationship(g, item.Connectivity.Relationship)
			}
			return planRemoveRelationship(g, item.Connectivity.Relationship, model.DispositionApplied)
		}
		return noAutomation("no removal target attached to this item")

	case model.ActionClarify:
		if item.Balance == nil || item.Balance.NodeTypeID == "" {
			return noAutomation("no node type attached to this item")
		}
		return planClarify(g, item.Balance.NodeTypeID, "REVIEW: "+item.Balance.Reasoning)

	default:
		return noAutomation(fmt.Sprintf("action %s has no automated resolution", item.Action))
	}
}

// planCustom parses a reviewer-typed command. Supported forms:
//
//	create <sourceType> <predicate> <destType>
//	remove <nodeTypeID or relationshipID>
//	move <nodeTypeID> <layerID>
//	clarify <nodeTypeID> <note...>
//	add-attribute <nodeTypeID> <name> <type>
//	collapse <nodeTypeID>
func (e *Engine) planCustom(g *schema.Graph, command string) (plan, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return noAutomation("empty custom command")
	}

	switch fields[0] {
	case "create":
		if len(fields) != 4 {
			return plan{}, fmt.Errorf("usage: create <sourceType> <predicate> <destType>")
		}
		gap := &model.GapCandidate{SourceType: fields[1], Predicate: fields[2], DestType: fields[3]}
		return planCreateRelationship(g, gap, false)

	case "remove":
		if len(fields) != 2 {
			return plan{}, fmt.Errorf("usage: remove <nodeTypeID or relationshipID>")
		}
		if _, ok := g.Relationships[fields[1]]; ok {
			return planRemoveRelationship(g, fields[1], model.DispositionApplied)
		}
		return planRemoveNodeType(g, fields[1])

	case "move":
		if len(fields) != 3 {
			return plan{}, fmt.Errorf("usage: move <nodeTypeID> <layerID>")
		}
		return planMove(g, fields[1], fields[2])

	case "clarify":
		if len(fields) < 3 {
			return plan{}, fmt.Errorf("usage: clarify <nodeTypeID> <note...>")
		}
		return planClarify(g, fields[1], strings.Join(fields[2:], " "))

	case "add-attribute":
		if len(fields) != 4 {
			return plan{}, fmt.Errorf("usage: add-attribute <nodeTypeID> <name> <type>")
		}
		return planAddAttribute(g, fields[1], model.AttributeDef{Name: fields[2], Type: fields[3]})

	case "collapse":
		if len(fields) != 2 {
			return plan{}, fmt.Errorf("usage: collapse <nodeTypeID>")
		}
		return planCollapseAttributes(g, fields[1])

	default:
		return plan{}, fmt.Errorf("unknown custom command %q", fields[0])
	}
}
