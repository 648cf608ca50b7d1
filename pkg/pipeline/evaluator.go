// Package pipeline orchestrates before/after audits around an external
// recommendation source. The external step is fail-soft: if the source is
// unavailable the pipeline degrades to the baseline report instead of
// failing the run.
package pipeline

import (
	"context"
	"errors"

	"github.com/tinkermonkey/specaudit/pkg/model"
)

// ErrEvaluatorUnavailable signals that the external recommendation source
// cannot be reached. The orchestrator emits the "before" report and skips
// every remaining external call; it never retries within a run.
var ErrEvaluatorUnavailable = errors.New("recommendation evaluator unavailable")

// Subject describes one evaluation target: a single node type, a whole
// layer, or a node-type pair. Exactly the fields relevant to the subject
// kind are set.
type Subject struct {
	NodeType *model.NodeType
	Layer    *model.Layer
	PairA    *model.NodeType
	PairB    *model.NodeType
}

// Evaluator is the port to the external recommendation source. Calls are
// blocking, boundable through ctx, and individually cancelable. An
// implementation returns ErrEvaluatorUnavailable (possibly wrapped) when the
// source cannot be reached.
type Evaluator interface {
	Evaluate(ctx context.Context, subject Subject) ([]model.Recommendation, error)
}
