// Package report merges analyzer output into one canonical AuditReport and
// renders it in structured, narrative, and plain-text forms. All three
// renderings derive from the same object, so content cannot diverge.
package report

import (
	"time"

	"github.com/tinkermonkey/specaudit/pkg/analysis"
	"github.com/tinkermonkey/specaudit/pkg/model"
	"github.com/tinkermonkey/specaudit/pkg/schema"
)

// Assemble runs every analyzer over the graph and merges the findings.
// The timestamp is injected so callers control determinism: two calls with
// the same graph and time produce byte-identical structured output.
func Assemble(g *schema.Graph, scope string, now time.Time) *model.AuditReport {
	return &model.AuditReport{
		GeneratedAt:  now.UTC(),
		Scope:        scope,
		Coverage:     filterCoverage(analysis.Coverage(g), scope),
		Gaps:         filterGaps(analysis.Gaps(g), scope, g),
		Duplicates:   analysis.Duplicates(g),
		Balance:      analysis.Balance(g),
		Connectivity: analysis.Connectivity(g),
		Completeness: g.Completeness,
	}
}

// filterCoverage narrows coverage to one layer when a scope is set.
func filterCoverage(metrics []model.CoverageMetric, scope string) []model.CoverageMetric {
	if scope == "" {
		return metrics
	}
	var out []model.CoverageMetric
	for _, m := range metrics {
		if m.LayerID == scope {
			out = append(out, m)
		}
	}
	return out
}

// filterGaps narrows gap candidates to those touching the scoped layer.
func filterGaps(gaps []model.GapCandidate, scope string, g *schema.Graph) []model.GapCandidate {
	if scope == "" {
		return gaps
	}
	var out []model.GapCandidate
	for _, gap := range gaps {
		if inLayer(g, gap.SourceType, scope) || inLayer(g, gap.DestType, scope) {
			out = append(out, gap)
		}
	}
	return out
}

func inLayer(g *schema.Graph, nodeTypeID, layerID string) bool {
	nt, ok := g.NodeTypes[nodeTypeID]
	return ok && nt.Layer == layerID
}
