package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/tinkermonkey/specaudit/pkg/logging"
	"github.com/tinkermonkey/specaudit/pkg/model"
	"github.com/tinkermonkey/specaudit/pkg/report"
	"github.com/tinkermonkey/specaudit/pkg/schema"
	"github.com/tinkermonkey/specaudit/pkg/validation"
)

// Config tunes one pipeline run.
type Config struct {
	Scope       string
	Evaluate    bool
	CallTimeout time.Duration
	Clock       func() time.Time
}

// DefaultConfig returns pipeline defaults: no external evaluation, a
// 60-second bound per external call.
func DefaultConfig() Config {
	return Config{
		CallTimeout: 60 * time.Second,
		Clock:       time.Now,
	}
}

// Validate rejects tunables that would starve the external evaluator. Sub-
// second call timeouts cannot complete a chat round trip.
func (c Config) Validate() error {
	return validation.NewConfigValidator("PipelineConfig").
		When(c.Evaluate, func(cv *validation.ConfigValidator) {
			cv.MinDuration("CallTimeout", c.CallTimeout, time.Second)
		}).
		Validate()
}

// Orchestrator runs the before audit, the external recommendation step, and
// the after audit with its differential summary.
type Orchestrator struct {
	config    Config
	evaluator Evaluator
	logger    logging.Logger
}

// NewOrchestrator wires an orchestrator. The evaluator may be nil when
// external evaluation is disabled.
func NewOrchestrator(config Config, evaluator Evaluator, logger logging.Logger) *Orchestrator {
	if config.Clock == nil {
		config.Clock = time.Now
	}
	if config.CallTimeout <= 0 {
		config.CallTimeout = 60 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Orchestrator{config: config, evaluator: evaluator, logger: logger}
}

// Run produces the baseline report and, when external evaluation is enabled,
// the merged after report with its differential. Failure policy: evaluator
// unavailability degrades to the before-only result; any error in the
// deterministic analysis itself is fatal and returned.
func (o *Orchestrator) Run(ctx context.Context, g *schema.Graph) (*model.PipelineResult, error) {
	before := report.Assemble(g, o.config.Scope, o.config.Clock())
	result := &model.PipelineResult{Before: before}

	if !o.config.Evaluate || o.evaluator == nil {
		return result, nil
	}

	recs, skipped := o.collectRecommendations(ctx, g, before)
	if skipped {
		result.Summary.EvaluatorSkipped = true
		return result, nil
	}

	merged := MergeRecommendations(before.Gaps, recs)
	before.Gaps = merged

	// Simulate the merged candidate set as real relationships and re-run the
	// analyzers for the after view.
	var proposed []*model.RelationshipType
	for _, gap := range merged {
		proposed = append(proposed, gapToRelationship(g, gap))
	}
	derived, applied := g.WithRelationships(proposed)
	after := report.Assemble(derived, o.config.Scope, o.config.Clock())
	result.After = after

	result.Summary = model.PipelineSummary{
		RelationshipsAdded: applied,
		GapsResolved:       countResolved(before.Gaps, after.Gaps),
		DensityDelta:       meanDensity(after.Coverage) - meanDensity(before.Coverage),
	}
	return result, nil
}

// collectRecommendations calls the evaluator once per qualifying finding.
// Qualifying findings are the isolated node types and the high-priority gap
// endpoints from the baseline report. Context cancellation halts subsequent
// calls but keeps what was already collected; evaluator unavailability
// discards the external step entirely.
func (o *Orchestrator) collectRecommendations(ctx context.Context, g *schema.Graph, before *model.AuditReport) (recs []model.Recommendation, skipped bool) {
	for _, subject := range o.qualifyingSubjects(g, before) {
		if ctx.Err() != nil {
			o.logger.Warn("external evaluation aborted", logging.String("reason", ctx.Err().Error()))
			return recs, false
		}

		callCtx, cancel := context.WithTimeout(ctx, o.config.CallTimeout)
		batch, err := o.evaluator.Evaluate(callCtx, subject)
		cancel()

		if errors.Is(err, ErrEvaluatorUnavailable) {
			o.logger.Warn("recommendation source unavailable, emitting baseline only", logging.Error(err))
			return nil, true
		}
		if err != nil {
			// Per-subject failures (bad payload, call timeout) lose only
			// that subject's recommendations.
			o.logger.Warn("evaluation failed for subject", logging.Error(err))
			continue
		}
		recs = append(recs, batch...)
	}
	return recs, false
}

func (o *Orchestrator) qualifyingSubjects(g *schema.Graph, before *model.AuditReport) []Subject {
	var subjects []Subject
	seen := make(map[string]bool)

	for _, id := range before.Connectivity.IsolatedTypes {
		if nt, ok := g.NodeTypes[id]; ok && !seen[id] {
			seen[id] = true
			subjects = append(subjects, Subject{NodeType: nt})
		}
	}
	for _, gap := range before.Gaps {
		if gap.Priority != model.PriorityHigh {
			continue
		}
		a, okA := g.NodeTypes[gap.SourceType]
		b, okB := g.NodeTypes[gap.DestType]
		key := gap.SourceType + "|" + gap.DestType
		if okA && okB && !seen[key] {
			seen[key] = true
			subjects = append(subjects, Subject{PairA: a, PairB: b})
		}
	}
	return subjects
}

func gapToRelationship(g *schema.Graph, gap model.GapCandidate) *model.RelationshipType {
	srcLayer, dstLayer := "", ""
	if nt, ok := g.NodeTypes[gap.SourceType]; ok {
		srcLayer = nt.Layer
	}
	if nt, ok := g.NodeTypes[gap.DestType]; ok {
		dstLayer = nt.Layer
	}
	return &model.RelationshipType{
		ID:          model.RelationshipID(gap.SourceType, gap.Predicate, gap.DestType),
		SourceLayer: srcLayer,
		SourceType:  gap.SourceType,
		Predicate:   gap.Predicate,
		DestLayer:   dstLayer,
		DestType:    gap.DestType,
		Cardinality: model.ManyToMany,
		Strength:    model.StrengthInferred,
	}
}

func countResolved(beforeGaps, afterGaps []model.GapCandidate) int {
	after := make(map[string]bool, len(afterGaps))
	for _, gap := range afterGaps {
		after[gap.Key()] = true
	}
	resolved := 0
	for _, gap := range beforeGaps {
		if !after[gap.Key()] {
			resolved++
		}
	}
	return resolved
}

func meanDensity(metrics []model.CoverageMetric) float64 {
	if len(metrics) == 0 {
		return 0
	}
	total := 0.0
	for _, m := range metrics {
		total += m.Density
	}
	return total / float64(len(metrics))
}
