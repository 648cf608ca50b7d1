package analysis

import (
	"math"
	"reflect"
	"testing"
)

func TestCoverage_IsolationAndDensity(t *testing.T) {
	// Five node types, two relationships touching two of them: three
	// isolated types, 60% isolation, density 0.4.
	g := newSpec(t).
		layer("service", 2, "", "api", "worker", "cache", "queue", "scheduler").
		rel("service.api", "depends-on", "service.worker").
		rel("service.worker", "owns", "service.api").
		build()

	metrics := Coverage(g)
	if len(metrics) != 1 {
		t.Fatalf("Expected 1 layer metric, got %d", len(metrics))
	}

	cm := metrics[0]
	if cm.NodeTypeCount != 5 {
		t.Errorf("Expected 5 node types, got %d", cm.NodeTypeCount)
	}
	if cm.IsolatedCount != 3 {
		t.Errorf("Expected 3 isolated types, got %d", cm.IsolatedCount)
	}
	if math.Abs(cm.IsolationPercentage-60.0) > 1e-9 {
		t.Errorf("Expected 60%% isolation, got %f", cm.IsolationPercentage)
	}
	if math.Abs(cm.Density-0.4) > 1e-9 {
		t.Errorf("Expected density 0.4, got %f", cm.Density)
	}
	if cm.IntraLayerRelCount != 2 || cm.InterLayerRelCount != 0 {
		t.Errorf("Expected 2 intra and 0 inter, got %d/%d", cm.IntraLayerRelCount, cm.InterLayerRelCount)
	}
}

func TestCoverage_EmptyLayerFullyIsolated(t *testing.T) {
	g := newSpec(t).
		layer("business", 1, "").
		layer("service", 2, "", "api").
		build()

	metrics := Coverage(g)
	if len(metrics) != 2 {
		t.Fatalf("Expected 2 layer metrics, got %d", len(metrics))
	}

	empty := metrics[0]
	if empty.LayerID != "business" {
		t.Fatalf("Expected business first, got %s", empty.LayerID)
	}
	if empty.IsolationPercentage != 100.0 {
		t.Errorf("Expected 100%% isolation for an empty layer, got %f", empty.IsolationPercentage)
	}
	if empty.Density != 0 {
		t.Errorf("Expected 0 density for an empty layer, got %f", empty.Density)
	}
}

func TestCoverage_InterLayerCounted(t *testing.T) {
	g := newSpec(t).
		layer("service", 2, "", "api").
		layer("data", 3, "", "store").
		rel("data.store", "supported-by", "service.api").
		build()

	metrics := Coverage(g)
	for _, cm := range metrics {
		if cm.IntraLayerRelCount != 0 {
			t.Errorf("Layer %s: expected 0 intra, got %d", cm.LayerID, cm.IntraLayerRelCount)
		}
		if cm.InterLayerRelCount != 1 {
			t.Errorf("Layer %s: expected 1 inter, got %d", cm.LayerID, cm.InterLayerRelCount)
		}
	}
}

func TestCoverage_PredicateUtilization(t *testing.T) {
	g := newSpec(t).
		layer("service", 2, "", "api", "worker").
		rel("service.api", "depends-on", "service.worker").
		build()

	metrics := Coverage(g)
	// One of four catalog predicates in use.
	if math.Abs(metrics[0].PredicateUtilization-0.25) > 1e-9 {
		t.Errorf("Expected utilization 0.25, got %f", metrics[0].PredicateUtilization)
	}
}

func TestCoverage_Deterministic(t *testing.T) {
	g := newSpec(t).
		layer("business", 1, "", "capability").
		layer("service", 2, "", "api", "worker").
		rel("service.api", "supported-by", "business.capability").
		build()

	first := Coverage(g)
	for i := 0; i < 10; i++ {
		if next := Coverage(g); !reflect.DeepEqual(first, next) {
			t.Fatalf("Run %d differed from the first run", i)
		}
	}
}
