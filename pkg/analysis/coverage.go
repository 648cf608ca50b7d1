package analysis

import (
	"github.com/tinkermonkey/specaudit/pkg/model"
	"github.com/tinkermonkey/specaudit/pkg/schema"
)

// Coverage computes per-layer structural coverage. It is a pure function of
// the graph: re-running on an unchanged graph yields byte-identical output.
func Coverage(g *schema.Graph) []model.CoverageMetric {
	catalogSize := len(g.Predicates)

	var metrics []model.CoverageMetric
	for _, layer := range g.LayersOrdered() {
		metrics = append(metrics, layerCoverage(g, layer.ID, catalogSize))
	}
	return metrics
}

func layerCoverage(g *schema.Graph, layerID string, catalogSize int) model.CoverageMetric {
	nodeTypes := g.NodeTypesInLayer(layerID)

	intra, inter := 0, 0
	usedPredicates := make(map[string]bool)
	for _, rel := range g.RelationshipsOrdered() {
		srcIn := rel.SourceLayer == layerID
		dstIn := rel.DestLayer == layerID
		switch {
		case srcIn && dstIn:
			intra++
		case srcIn || dstIn:
			inter++
		default:
			continue
		}
		usedPredicates[rel.Predicate] = true
	}

	isolated := 0
	for _, nt := range nodeTypes {
		if g.IncidentCount(nt.ID) == 0 {
			isolated++
		}
	}

	// An empty or fully disconnected layer is 100% isolated by definition.
	isolation := 100.0
	if len(nodeTypes) > 0 {
		isolation = float64(isolated) / float64(len(nodeTypes)) * 100.0
	}

	utilization := 0.0
	if catalogSize > 0 {
		utilization = float64(len(usedPredicates)) / float64(catalogSize)
	}

	return model.CoverageMetric{
		LayerID:              layerID,
		NodeTypeCount:        len(nodeTypes),
		IntraLayerRelCount:   intra,
		InterLayerRelCount:   inter,
		IsolatedCount:        isolated,
		IsolationPercentage:  isolation,
		Density:              float64(intra+inter) / float64(max(len(nodeTypes), 1)),
		PredicateUtilization: utilization,
	}
}
