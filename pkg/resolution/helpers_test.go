package resolution

import (
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/tinkermonkey/specaudit/pkg/model"
	"github.com/tinkermonkey/specaudit/pkg/schema"
)

const resolutionTestCatalog = `predicates:
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
  realizes:
    inverse: ""
    category: realization
    description: Source makes the destination concrete
    semantics:
      directed: true
  owns:
    inverse: ""
    category: ownership
    description: Source is responsible for the destination
    semantics:
      directed: true
`

// setupResolutionSpec writes a small loadable specification: three layers,
// five node types, and one relationship from service.api to data.store.
func setupResolutionSpec(t *testing.T) string {
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
	write(schema.PredicateCatalog, []byte(resolutionTestCatalog))

	layers := []*model.Layer{
		{ID: "business", Number: 1, Name: "Business", NodeTypes: []string{"business.capability"}},
		{ID: "service", Number: 2, Name: "Service", NodeTypes: []string{"service.api", "service.worker"}},
		{ID: "data", Number: 3, Name: "Data", NodeTypes: []string{"data.store", "data.worker"}},
	}
	for _, layer := range layers {
		data, err := schema.MarshalLayer(layer)
		if err != nil {
			t.Fatalf("Failed to marshal layer %s: %v", layer.ID, err)
		}
		write(filepath.Join(schema.LayersDir, layer.ID+".yaml"), data)
	}

	types := []*model.NodeType{
		{ID: "business.capability", Layer: "business", Type: "capability", Title: "Capability"},
		{ID: "service.api", Layer: "service", Type: "api", Title: "API", Description: "Synchronous interface."},
		{ID: "service.worker", Layer: "service", Type: "worker", Title: "Worker"},
		{ID: "data.store", Layer: "data", Type: "store", Title: "Store"},
		{ID: "data.worker", Layer: "data", Type: "worker", Title: "Data Worker"},
	}
	for _, nt := range types {
		data, err := schema.MarshalNodeType(nt)
		if err != nil {
			t.Fatalf("Failed to marshal node type %s: %v", nt.ID, err)
		}
		write(filepath.Join(schema.NodeTypesDir, nt.ID+".yaml"), data)
	}

	rel := &model.RelationshipType{
		ID:          model.RelationshipID("service.api", "depends-on", "data.store"),
		SourceLayer: "service",
		SourceType:  "service.api",
		Predicate:   "depends-on",
		DestLayer:   "data",
		DestType:    "data.store",
		Cardinality: model.ManyToMany,
		Strength:    model.StrengthStrong,
	}
	data, err := schema.MarshalRelationship(rel)
	if err != nil {
		t.Fatalf("Failed to marshal relationship: %v", err)
	}
	write(filepath.Join(schema.RelationshipsDir, rel.ID+".yaml"), data)

	return dir
}

// specDigest hashes every schema file so mutation (or its absence) is
// checkable byte for byte. The session journal is excluded.
func specDigest(t *testing.T, dir string) string {
	t.Helper()

	var paths []string
	for _, sub := range []string{schema.LayersDir, schema.NodeTypesDir, schema.RelationshipsDir} {
		err := filepath.WalkDir(filepath.Join(dir, sub), func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			paths = append(paths, path)
			return nil
		})
		if err != nil {
			t.Fatalf("Failed to walk %s: %v", sub, err)
		}
	}
	paths = append(paths, filepath.Join(dir, schema.PredicateCatalog))
	sort.Strings(paths)

	h := sha256.New()
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Failed to read %s: %v", path, err)
		}
		fmt.Fprintf(h, "%s\n", path)
		h.Write(data)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// chooserFunc adapts a function to the Chooser interface.
type chooserFunc func(item *model.QueueItem) (Action, error)

func (f chooserFunc) Choose(item *model.QueueItem) (Action, error) { return f(item) }

func fixedChoice(choice Choice) Chooser {
	return chooserFunc(func(*model.QueueItem) (Action, error) {
		return Action{Choice: choice}, nil
	})
}

func customChoice(command string) Chooser {
	return chooserFunc(func(*model.QueueItem) (Action, error) {
		return Action{Choice: ChoiceCustom, Custom: command}, nil
	})
}

// journalEntries reopens the journal read-only and returns its contents.
func journalEntries(t *testing.T, dir string) []JournalEntry {
	t.Helper()
	j, err := OpenJournal(dir)
	if err != nil {
		t.Fatalf("Failed to open journal for inspection: %v", err)
	}
	defer j.Close()
	entries, err := j.Entries()
	if err != nil {
		t.Fatalf("Failed to read journal entries: %v", err)
	}
	return entries
}
