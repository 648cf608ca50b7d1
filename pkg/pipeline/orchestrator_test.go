package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tinkermonkey/specaudit/pkg/model"
	"github.com/tinkermonkey/specaudit/pkg/schema"
)

const pipelineTestCatalog = `predicates:
  depends-on:
    inverse: supported-by
    category: structural
    description: Source requires the destination to function
    semantics:
      directed: true
  supported-by:
    inverse: depends-on
    category: structural
    description: Inverse of depends-on
    semantics:
      directed: true
`

// loadPipelineTestGraph builds a specification with two isolated node types
// so the orchestrator has two evaluation subjects.
func loadPipelineTestGraph(t *testing.T) *schema.Graph {
	t.Helper()
	dir := t.TempDir()

	write := func(rel string, data []byte) {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", path, err)
		}
	}
	write(schema.PredicateCatalog, []byte(pipelineTestCatalog))

	layers := []*model.Layer{
		{ID: "service", Number: 1, Name: "Service", NodeTypes: []string{"service.api", "service.batch"}},
		{ID: "data", Number: 2, Name: "Data", NodeTypes: []string{"data.store", "data.archive"}},
	}
	for _, layer := range layers {
		data, err := schema.MarshalLayer(layer)
		if err != nil {
			t.Fatalf("Failed to marshal layer %s: %v", layer.ID, err)
		}
		write(filepath.Join(schema.LayersDir, layer.ID+".yaml"), data)
	}
	for _, nt := range []*model.NodeType{
		{ID: "service.api", Layer: "service", Type: "api", Title: "API"},
		{ID: "service.batch", Layer: "service", Type: "batch", Title: "Batch"},
		{ID: "data.store", Layer: "data", Type: "store", Title: "Store"},
		{ID: "data.archive", Layer: "data", Type: "archive", Title: "Archive"},
	} {
		data, err := schema.MarshalNodeType(nt)
		if err != nil {
			t.Fatalf("Failed to marshal node type %s: %v", nt.ID, err)
		}
		write(filepath.Join(schema.NodeTypesDir, nt.ID+".yaml"), data)
	}

	rel := &model.RelationshipType{
		ID:          model.RelationshipID("data.store", "supported-by", "service.api"),
		SourceLayer: "data",
		SourceType:  "data.store",
		Predicate:   "supported-by",
		DestLayer:   "service",
		DestType:    "service.api",
		Cardinality: model.ManyToMany,
		Strength:    model.StrengthStrong,
	}
	data, err := schema.MarshalRelationship(rel)
	if err != nil {
		t.Fatalf("Failed to marshal relationship: %v", err)
	}
	write(filepath.Join(schema.RelationshipsDir, rel.ID+".yaml"), data)

	g, err := schema.Load(dir)
	if err != nil {
		t.Fatalf("Failed to load specification: %v", err)
	}
	return g
}

// stubEvaluator scripts the evaluator port: one response or error per call,
// in order. Calls beyond the script return nothing.
type stubEvaluator struct {
	calls     int
	responses []func(subject Subject) ([]model.Recommendation, error)
}

func (s *stubEvaluator) Evaluate(_ context.Context, subject Subject) ([]model.Recommendation, error) {
	i := s.calls
	s.calls++
	if i < len(s.responses) {
		return s.responses[i](subject)
	}
	return nil, nil
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Evaluate = true
	cfg.Clock = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	cfg := testConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default evaluation config should validate, got %v", err)
	}

	cfg.CallTimeout = 100 * time.Millisecond
	if err := cfg.Validate(); err == nil {
		t.Error("Sub-second call timeout should be rejected when evaluation is on")
	}

	cfg.Evaluate = false
	if err := cfg.Validate(); err != nil {
		t.Errorf("Timeout is irrelevant without evaluation, got %v", err)
	}
}

func TestOrchestrator_EvaluationDisabled(t *testing.T) {
	g := loadPipelineTestGraph(t)
	evaluator := &stubEvaluator{}
	cfg := testConfig()
	cfg.Evaluate = false

	result, err := NewOrchestrator(cfg, evaluator, nil).Run(context.Background(), g)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Before == nil || result.After != nil {
		t.Error("Disabled evaluation should produce the before report only")
	}
	if evaluator.calls != 0 {
		t.Errorf("Evaluator called %d times with evaluation disabled", evaluator.calls)
	}
	if !result.Before.GeneratedAt.Equal(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("Injected clock not used, got %v", result.Before.GeneratedAt)
	}
}

func TestOrchestrator_MergesAndReaudits(t *testing.T) {
	g := loadPipelineTestGraph(t)
	recommend := func(Subject) ([]model.Recommendation, error) {
		return []model.Recommendation{{
			SourceType:     "service.batch",
			Predicate:      "depends-on",
			DestType:       "data.store",
			Justification:  "batch jobs persist their output",
			Priority:       model.PriorityMedium,
			ImpactScore:    6,
			AlignmentScore: 55,
		}}, nil
	}
	evaluator := &stubEvaluator{responses: []func(Subject) ([]model.Recommendation, error){recommend, recommend}}

	result, err := NewOrchestrator(testConfig(), evaluator, nil).Run(context.Background(), g)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.After == nil {
		t.Fatal("Expected an after report")
	}
	// Both isolated types qualify as subjects.
	if evaluator.calls != 2 {
		t.Errorf("Evaluator calls = %d, want 2", evaluator.calls)
	}
	if result.Summary.EvaluatorSkipped {
		t.Error("Summary should not mark the evaluator as skipped")
	}
	// Every merged candidate is distinct and valid, so the simulation
	// applies them all.
	if result.Summary.RelationshipsAdded != len(result.Before.Gaps) {
		t.Errorf("RelationshipsAdded = %d, want %d", result.Summary.RelationshipsAdded, len(result.Before.Gaps))
	}
	if result.Summary.GapsResolved == 0 {
		t.Error("Simulating the recommended relationships should resolve gaps")
	}
	if result.Summary.DensityDelta <= 0 {
		t.Errorf("DensityDelta = %g, want positive", result.Summary.DensityDelta)
	}

	found := false
	for _, gap := range result.Before.Gaps {
		if gap.External && gap.SourceType == "service.batch" && gap.DestType == "data.store" {
			found = true
		}
	}
	if !found {
		t.Error("External recommendation missing from the merged gap set")
	}
	// The source graph itself is untouched.
	if len(g.Relationships) != 1 {
		t.Errorf("Simulation mutated the source graph: %d relationships", len(g.Relationships))
	}
}

func TestOrchestrator_UnavailableEvaluatorDegrades(t *testing.T) {
	g := loadPipelineTestGraph(t)
	evaluator := &stubEvaluator{responses: []func(Subject) ([]model.Recommendation, error){
		func(Subject) ([]model.Recommendation, error) {
			return nil, fmt.Errorf("%w: connection refused", ErrEvaluatorUnavailable)
		},
	}}

	result, err := NewOrchestrator(testConfig(), evaluator, nil).Run(context.Background(), g)
	if err != nil {
		t.Fatalf("Unavailability must not fail the run: %v", err)
	}
	if result.Before == nil {
		t.Fatal("Baseline report must survive evaluator unavailability")
	}
	if result.After != nil {
		t.Error("No after report when the evaluator is unavailable")
	}
	if !result.Summary.EvaluatorSkipped {
		t.Error("Summary should record the skipped evaluator")
	}
	// No retry within the run: the first failure ends the external step.
	if evaluator.calls != 1 {
		t.Errorf("Evaluator calls = %d, want 1", evaluator.calls)
	}
}

func TestOrchestrator_PerSubjectFailureContinues(t *testing.T) {
	g := loadPipelineTestGraph(t)
	evaluator := &stubEvaluator{responses: []func(Subject) ([]model.Recommendation, error){
		func(Subject) ([]model.Recommendation, error) {
			return nil, errors.New("malformed recommendation payload")
		},
		func(Subject) ([]model.Recommendation, error) {
			return []model.Recommendation{{
				SourceType: "data.archive", Predicate: "supported-by", DestType: "service.api",
				Justification: "archives are maintained by a service",
			}}, nil
		},
	}}

	result, err := NewOrchestrator(testConfig(), evaluator, nil).Run(context.Background(), g)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if evaluator.calls != 2 {
		t.Errorf("Evaluator calls = %d, want 2 (failure loses one subject, not the step)", evaluator.calls)
	}
	if result.After == nil {
		t.Fatal("Expected an after report from the surviving subject")
	}
	found := false
	for _, gap := range result.Before.Gaps {
		if gap.External && gap.SourceType == "data.archive" && gap.DestType == "service.api" {
			found = true
		}
	}
	if !found {
		t.Error("Surviving subject's recommendation missing from the merged gap set")
	}
}

func TestOrchestrator_CancelledContextSkipsRemainingCalls(t *testing.T) {
	g := loadPipelineTestGraph(t)
	evaluator := &stubEvaluator{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := NewOrchestrator(testConfig(), evaluator, nil).Run(ctx, g)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if evaluator.calls != 0 {
		t.Errorf("Evaluator called %d times under a cancelled context", evaluator.calls)
	}
	if result.After == nil {
		t.Error("Cancellation keeps what was collected and still produces the after view")
	}
}

func TestParseRecommendations(t *testing.T) {
	fenced := "```json\n[{\"sourceType\":\"a.x\",\"destType\":\"b.y\",\"predicate\":\"owns\"}]\n```"
	recs, err := parseRecommendations(fenced)
	if err != nil {
		t.Fatalf("Fenced payload should parse: %v", err)
	}
	if len(recs) != 1 || recs[0].Predicate != "owns" {
		t.Errorf("Parsed recommendations = %+v", recs)
	}

	if _, err := parseRecommendations("not json at all"); err == nil {
		t.Error("Malformed payload must be rejected")
	}
}

func TestDescribeSubject(t *testing.T) {
	nt := &model.NodeType{ID: "service.api", Layer: "service", Title: "API", Description: "Sync interface",
		Attributes: []model.AttributeDef{{Name: "protocol", Type: "string", Required: true}}}
	desc := describeSubject(Subject{NodeType: nt})
	for _, want := range []string{"service.api", "Sync interface", "attribute protocol"} {
		if !strings.Contains(desc, want) {
			t.Errorf("Subject description missing %q in %q", want, desc)
		}
	}

	pair := describeSubject(Subject{PairA: nt, PairB: nt})
	if !strings.Contains(pair, "Node type pair") {
		t.Errorf("Pair description = %q", pair)
	}
}
