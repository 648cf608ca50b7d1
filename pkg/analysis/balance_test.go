package analysis

import (
	"testing"
)

func TestBalance_FlagsOverconnectedHub(t *testing.T) {
	// api carries 5 edges against a layer median of 0: far outside the
	// median ± max(2, median) band.
	g := newSpec(t).
		layer("service", 2, "", "api", "worker", "cache", "queue", "scheduler").
		layer("data", 3, "", "store", "warehouse", "lake", "files", "archive").
		rel("service.api", "depends-on", "data.store").
		rel("service.api", "depends-on", "data.warehouse").
		rel("service.api", "depends-on", "data.lake").
		rel("service.api", "depends-on", "data.files").
		rel("service.api", "depends-on", "data.archive").
		build()

	issues := Balance(g).Issues

	var apiFlagged bool
	for _, issue := range issues {
		if issue.NodeTypeID == "service.api" {
			apiFlagged = true
			if !issue.Overconnected {
				t.Error("Expected api to be flagged overconnected")
			}
			if issue.RelCount != 5 {
				t.Errorf("Expected 5 relationships, got %d", issue.RelCount)
			}
			if issue.LayerID != "service" {
				t.Errorf("Expected service layer, got %s", issue.LayerID)
			}
		}
	}
	if !apiFlagged {
		t.Fatalf("Expected service.api in the issues, got %+v", issues)
	}
}

func TestBalance_UniformLayerClean(t *testing.T) {
	g := newSpec(t).
		layer("service", 2, "", "api", "worker").
		layer("data", 3, "", "store", "warehouse").
		rel("service.api", "depends-on", "data.store").
		rel("service.worker", "depends-on", "data.warehouse").
		build()

	if issues := Balance(g).Issues; len(issues) != 0 {
		t.Errorf("Expected no issues for a uniform layer, got %+v", issues)
	}
}

func TestBalance_SingleTypeLayerSkipped(t *testing.T) {
	g := newSpec(t).
		layer("business", 1, "", "capability").
		layer("service", 2, "", "api").
		rel("service.api", "supported-by", "business.capability").
		build()

	if issues := Balance(g).Issues; len(issues) != 0 {
		t.Errorf("Expected no issues for single-type layers, got %+v", issues)
	}
}

func TestMedian(t *testing.T) {
	cases := []struct {
		values []int
		want   float64
	}{
		{nil, 0},
		{[]int{3}, 3},
		{[]int{1, 3}, 2},
		{[]int{5, 1, 3}, 3},
		{[]int{4, 1, 3, 2}, 2.5},
	}
	for _, tc := range cases {
		if got := median(tc.values); got != tc.want {
			t.Errorf("median(%v) = %f, want %f", tc.values, got, tc.want)
		}
	}
}
