package analysis

import (
	"container/list"
	"fmt"

	"github.com/tinkermonkey/specaudit/pkg/model"
	"github.com/tinkermonkey/specaudit/pkg/schema"
)

// Connectivity treats the union of all layers as one directed graph of node
// types. It computes weakly-connected components by BFS, lists fully
// isolated node types, and flags relationships whose direction contradicts
// the layers' declared ordering: a lower-ordered layer referencing a
// higher-ordered one is an issue.
func Connectivity(g *schema.Graph) model.ConnectivitySummary {
	summary := model.ConnectivitySummary{}

	visited := make(map[string]bool)
	largest := 0
	for _, nt := range g.NodeTypesOrdered() {
		if visited[nt.ID] {
			continue
		}
		size := walkComponent(g, nt.ID, visited)
		summary.ComponentCount++
		if size > largest {
			largest = size
		}
	}
	summary.LargestComponent = largest

	for _, nt := range g.NodeTypesOrdered() {
		if g.IncidentCount(nt.ID) == 0 {
			summary.IsolatedTypes = append(summary.IsolatedTypes, nt.ID)
			summary.Issues = append(summary.Issues, model.ConnectivityIssue{
				Kind:       model.IssueIsolatedNodeType,
				NodeTypeID: nt.ID,
				Detail:     fmt.Sprintf("%s has no incident relationships in any direction", nt.ID),
			})
		}
	}

	// More than one component among connected node types means the
	// specification has fractured into islands.
	connectedComponents := summary.ComponentCount - len(summary.IsolatedTypes)
	if connectedComponents > 1 {
		summary.Issues = append(summary.Issues, model.ConnectivityIssue{
			Kind:   model.IssueFragmentedGraph,
			Detail: fmt.Sprintf("node types split across %d disconnected components (largest has %d)", connectedComponents, largest),
		})
	}

	for _, rel := range g.RelationshipsOrdered() {
		src, srcOK := g.Layers[rel.SourceLayer]
		dst, dstOK := g.Layers[rel.DestLayer]
		if !srcOK || !dstOK || src.ID == dst.ID {
			continue
		}
		if src.Number < dst.Number {
			summary.Issues = append(summary.Issues, model.ConnectivityIssue{
				Kind:         model.IssueInvertedDirection,
				Relationship: rel.ID,
				Detail: fmt.Sprintf("layer %s (%d) references higher-ordered layer %s (%d)",
					src.ID, src.Number, dst.ID, dst.Number),
			})
		}
	}

	return summary
}

// walkComponent marks every node type weakly reachable from start and
// returns the component size.
func walkComponent(g *schema.Graph, start string, visited map[string]bool) int {
	queue := list.New()
	queue.PushBack(start)
	visited[start] = true

	size := 0
	for queue.Len() > 0 {
		id, ok := queue.Remove(queue.Front()).(string)
		if !ok {
			continue
		}
		size++

		for _, rel := range g.Outgoing(id) {
			if !visited[rel.DestType] {
				visited[rel.DestType] = true
				queue.PushBack(rel.DestType)
			}
		}
		for _, rel := range g.Incoming(id) {
			if !visited[rel.SourceType] {
				visited[rel.SourceType] = true
				queue.PushBack(rel.SourceType)
			}
		}
	}
	return size
}
