package analysis

import (
	"fmt"
	"sort"

	"github.com/tinkermonkey/specaudit/pkg/model"
	"github.com/tinkermonkey/specaudit/pkg/schema"
)

// A node type is under-connected when its incident edge count falls below
// this fraction of its layer's mean.
const underConnectedFraction = 0.5

// Gaps proposes candidate relationship types for node types below their
// layer's density and isolation baseline. Candidates come from three
// sources, in preference order: relationship patterns of structurally
// similar node types in the same layer, predicates already exercised by the
// layer, and a catalog fallback. Every fully isolated node type receives at
// least one candidate whenever the graph offers any destination at all.
func Gaps(g *schema.Graph) []model.GapCandidate {
	var out []model.GapCandidate
	emitted := make(map[string]bool)

	for _, layer := range g.LayersOrdered() {
		nodeTypes := g.NodeTypesInLayer(layer.ID)
		if len(nodeTypes) == 0 {
			continue
		}

		mean := layerMeanIncidence(g, nodeTypes)
		for _, nt := range nodeTypes {
			incident := g.IncidentCount(nt.ID)
			isolated := incident == 0
			if !isolated && float64(incident) >= underConnectedFraction*mean {
				continue
			}

			for _, cand := range candidatesFor(g, layer, nt, isolated) {
				if emitted[cand.Key()] {
					continue
				}
				emitted[cand.Key()] = true
				out = append(out, cand)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

func layerMeanIncidence(g *schema.Graph, nodeTypes []*model.NodeType) float64 {
	total := 0
	for _, nt := range nodeTypes {
		total += g.IncidentCount(nt.ID)
	}
	return float64(total) / float64(len(nodeTypes))
}

func candidatesFor(g *schema.Graph, layer *model.Layer, nt *model.NodeType, isolated bool) []model.GapCandidate {
	priority := gapPriority(layer, isolated)

	// Source one: borrow the patterns of the most similar sibling.
	if sibling := mostSimilarSibling(g, layer.ID, nt.ID); sibling != "" {
		if cands := borrowPatterns(g, nt, sibling, priority, layer.Standard); len(cands) > 0 {
			return cands
		}
	}

	// Source two / fallback: connect toward the layer's best-connected peer
	// using the layer's dominant predicate, or the catalog's first predicate
	// when the layer has none in use.
	dest := bestConnectedPeer(g, layer.ID, nt.ID)
	if dest == "" {
		dest = anyOtherNodeType(g, nt.ID)
	}
	if dest == "" {
		return nil
	}

	predicate := dominantPredicate(g, layer.ID)
	if predicate == "" {
		preds := g.PredicatesOrdered()
		if len(preds) == 0 {
			return nil
		}
		predicate = preds[0].Name
	}
	if hasPredicate(g, nt.ID, dest, predicate) {
		// Forward link already declared; propose the reverse unless that
		// exists too.
		if hasPredicate(g, dest, nt.ID, predicate) {
			return nil
		}
		return []model.GapCandidate{newGapCandidate(dest, nt.ID, predicate, priority, layer.Standard,
			fmt.Sprintf("%s is under-connected; reverse link from %s follows the layer's dominant predicate", nt.ID, dest))}
	}

	reason := fmt.Sprintf("%s has no structural peer pattern; linking to the layer's best-connected type %s", nt.ID, dest)
	if isolated {
		reason = fmt.Sprintf("%s is fully isolated; linking to the layer's best-connected type %s", nt.ID, dest)
	}
	return []model.GapCandidate{newGapCandidate(nt.ID, dest, predicate, priority, layer.Standard, reason)}
}

// gapPriority is the priority heuristic: isolation in a layer that cites a
// reference standard is the strongest signal, bare isolation is medium, and
// mere under-connection is low.
func gapPriority(layer *model.Layer, isolated bool) model.Priority {
	switch {
	case isolated && layer.Standard != "":
		return model.PriorityHigh
	case isolated:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}

func newGapCandidate(src, dst, predicate string, priority model.Priority, standard, reasoning string) model.GapCandidate {
	return model.GapCandidate{
		SourceType:     src,
		DestType:       dst,
		Predicate:      predicate,
		Priority:       priority,
		ImpactScore:    impactScore(priority, standard),
		AlignmentScore: model.AlignmentFromGapPriority(priority),
		Reasoning:      reasoning,
		Standard:       standard,
	}
}

// impactScore is a coarse 0-10 estimate of structural improvement.
func impactScore(priority model.Priority, standard string) float64 {
	score := 3.0
	switch priority {
	case model.PriorityHigh:
		score = 9.0
	case model.PriorityMedium:
		score = 6.0
	}
	if standard != "" {
		score += 1.0
	}
	return score
}

// mostSimilarSibling finds the same-layer node type with the highest Jaccard
// similarity over neighbor sets, considering only siblings that have edges
// to borrow. Ties break on id order.
func mostSimilarSibling(g *schema.Graph, layerID, nodeTypeID string) string {
	self := neighborSet(g, nodeTypeID)

	best := ""
	bestScore := 0.0
	for _, sibling := range g.NodeTypesInLayer(layerID) {
		if sibling.ID == nodeTypeID || g.IncidentCount(sibling.ID) == 0 {
			continue
		}
		score := jaccard(self, neighborSet(g, sibling.ID))
		// Attribute overlap stands in for structural similarity when the
		// node type has no neighbors of its own yet.
		if len(self) == 0 {
			score = attributeOverlap(g, nodeTypeID, sibling.ID)
		}
		if score > bestScore {
			best, bestScore = sibling.ID, score
		}
	}
	return best
}

// borrowPatterns proposes the similar sibling's relationships re-rooted on
// the under-connected node type, skipping any that already exist.
func borrowPatterns(g *schema.Graph, nt *model.NodeType, siblingID string, priority model.Priority, standard string) []model.GapCandidate {
	var out []model.GapCandidate
	for _, rel := range g.Outgoing(siblingID) {
		if rel.DestType == nt.ID || hasPredicate(g, nt.ID, rel.DestType, rel.Predicate) {
			continue
		}
		out = append(out, newGapCandidate(nt.ID, rel.DestType, rel.Predicate, priority, standard,
			fmt.Sprintf("structurally similar %s already declares %q toward %s", siblingID, rel.Predicate, rel.DestType)))
	}
	for _, rel := range g.Incoming(siblingID) {
		if rel.SourceType == nt.ID || hasPredicate(g, rel.SourceType, nt.ID, rel.Predicate) {
			continue
		}
		out = append(out, newGapCandidate(rel.SourceType, nt.ID, rel.Predicate, priority, standard,
			fmt.Sprintf("structurally similar %s already receives %q from %s", siblingID, rel.Predicate, rel.SourceType)))
	}
	return out
}

func hasPredicate(g *schema.Graph, src, dst, predicate string) bool {
	for _, rel := range g.Between(src, dst) {
		if rel.Predicate == predicate {
			return true
		}
	}
	return false
}

func neighborSet(g *schema.Graph, nodeTypeID string) map[string]bool {
	neighbors := make(map[string]bool)
	for _, rel := range g.Outgoing(nodeTypeID) {
		if rel.DestType != nodeTypeID {
			neighbors[rel.DestType] = true
		}
	}
	for _, rel := range g.Incoming(nodeTypeID) {
		if rel.SourceType != nodeTypeID {
			neighbors[rel.SourceType] = true
		}
	}
	return neighbors
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for k := range a {
		if b[k] {
			intersection++
		}
	}
	return float64(intersection) / float64(len(a)+len(b)-intersection)
}

func attributeOverlap(g *schema.Graph, aID, bID string) float64 {
	a, b := g.NodeTypes[aID], g.NodeTypes[bID]
	if a == nil || b == nil {
		return 0
	}
	as := make(map[string]bool, len(a.Attributes))
	for _, attr := range a.Attributes {
		as[attr.Name] = true
	}
	bs := make(map[string]bool, len(b.Attributes))
	for _, attr := range b.Attributes {
		bs[attr.Name] = true
	}
	return jaccard(as, bs)
}

// bestConnectedPeer returns the same-layer node type with the most incident
// edges, excluding the given one. Ties break on id order.
func bestConnectedPeer(g *schema.Graph, layerID, excludeID string) string {
	best := ""
	bestCount := -1
	for _, nt := range g.NodeTypesInLayer(layerID) {
		if nt.ID == excludeID {
			continue
		}
		if count := g.IncidentCount(nt.ID); count > bestCount {
			best, bestCount = nt.ID, count
		}
	}
	return best
}

func anyOtherNodeType(g *schema.Graph, excludeID string) string {
	for _, nt := range g.NodeTypesOrdered() {
		if nt.ID != excludeID {
			return nt.ID
		}
	}
	return ""
}

// dominantPredicate returns the predicate most used within a layer,
// breaking ties on name order.
func dominantPredicate(g *schema.Graph, layerID string) string {
	counts := make(map[string]int)
	for _, rel := range g.RelationshipsOrdered() {
		if rel.SourceLayer == layerID || rel.DestLayer == layerID {
			counts[rel.Predicate]++
		}
	}
	best := ""
	bestCount := 0
	for _, pred := range g.PredicatesOrdered() {
		if c := counts[pred.Name]; c > bestCount {
			best, bestCount = pred.Name, c
		}
	}
	return best
}
