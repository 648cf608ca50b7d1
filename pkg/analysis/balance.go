package analysis

import (
	"fmt"
	"sort"

	"github.com/tinkermonkey/specaudit/pkg/model"
	"github.com/tinkermonkey/specaudit/pkg/schema"
)

// Balance flags node types whose incident relationship count is a
// statistical outlier against their layer median. The outlier band is
// median ± max(2, median): wide enough that small layers do not flag
// ordinary variation.
func Balance(g *schema.Graph) model.BalanceSummary {
	var issues []model.BalanceIssue

	for _, layer := range g.LayersOrdered() {
		nodeTypes := g.NodeTypesInLayer(layer.ID)
		if len(nodeTypes) < 2 {
			continue
		}

		counts := make([]int, 0, len(nodeTypes))
		for _, nt := range nodeTypes {
			counts = append(counts, g.IncidentCount(nt.ID))
		}
		med := median(counts)
		band := max(2.0, med)

		for _, nt := range nodeTypes {
			count := g.IncidentCount(nt.ID)
			deviation := float64(count) - med
			if deviation > band {
				issues = append(issues, model.BalanceIssue{
					LayerID:       layer.ID,
					NodeTypeID:    nt.ID,
					RelCount:      count,
					LayerMedian:   med,
					Deviation:     deviation,
					Overconnected: true,
					Reasoning:     fmt.Sprintf("%s carries %d relationships against a layer median of %.1f", nt.ID, count, med),
				})
			} else if -deviation > band {
				issues = append(issues, model.BalanceIssue{
					LayerID:     layer.ID,
					NodeTypeID:  nt.ID,
					RelCount:    count,
					LayerMedian: med,
					Deviation:   deviation,
					Reasoning:   fmt.Sprintf("%s carries only %d relationships against a layer median of %.1f", nt.ID, count, med),
				})
			}
		}
	}

	return model.BalanceSummary{Issues: issues}
}

func median(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2.0
}
