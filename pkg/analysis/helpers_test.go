package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tinkermonkey/specaudit/pkg/model"
	"github.com/tinkermonkey/specaudit/pkg/schema"
)

const analysisTestCatalog = `predicates:
  depends-on:
    inverse: supported-by
    category: structural
    description: Source requires the destination to function
    semantics:
      directed: true
      transitive: true
  supported-by:
    inverse: depends-on
    category: structural
    description: Inverse of depends-on
    semantics:
      directed: true
      transitive: true
  owns:
    inverse: ""
    category: ownership
    description: Source is responsible for the destination
    semantics:
      directed: true
  stores-in:
    inverse: ""
    category: data
    description: Source persists through the destination
    semantics:
      directed: true
`

// specBuilder accumulates entities and materializes them as a loadable
// specification directory.
type specBuilder struct {
	t      *testing.T
	layers []*model.Layer
	types  []*model.NodeType
	rels   []*model.RelationshipType
}

func newSpec(t *testing.T) *specBuilder {
	t.Helper()
	return &specBuilder{t: t}
}

func (b *specBuilder) layer(id string, number int, standard string, memberTypes ...string) *specBuilder {
	ids := make([]string, 0, len(memberTypes))
	for _, typ := range memberTypes {
		ids = append(ids, id+"."+typ)
		b.types = append(b.types, &model.NodeType{
			ID: id + "." + typ, Layer: id, Type: typ, Title: typ,
		})
	}
	b.layers = append(b.layers, &model.Layer{
		ID: id, Number: number, Name: id, Standard: standard, NodeTypes: ids,
	})
	return b
}

func (b *specBuilder) attrs(nodeTypeID string, names ...string) *specBuilder {
	for _, nt := range b.types {
		if nt.ID != nodeTypeID {
			continue
		}
		for _, name := range names {
			nt.Attributes = append(nt.Attributes, model.AttributeDef{Name: name, Type: "string"})
		}
	}
	return b
}

func (b *specBuilder) rel(src, predicate, dst string) *specBuilder {
	srcLayer, _, _ := schema.SplitCompositeID(src)
	dstLayer, _, _ := schema.SplitCompositeID(dst)
	b.rels = append(b.rels, &model.RelationshipType{
		ID:          model.RelationshipID(src, predicate, dst),
		SourceLayer: srcLayer,
		SourceType:  src,
		Predicate:   predicate,
		DestLayer:   dstLayer,
		DestType:    dst,
		Cardinality: model.ManyToMany,
		Strength:    model.StrengthStrong,
	})
	return b
}

func (b *specBuilder) build() *schema.Graph {
	b.t.Helper()
	dir := b.t.TempDir()

	write := func(rel string, data []byte) {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			b.t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			b.t.Fatalf("Failed to write %s: %v", path, err)
		}
	}

	write(schema.PredicateCatalog, []byte(analysisTestCatalog))
	for _, layer := range b.layers {
		data, err := schema.MarshalLayer(layer)
		if err != nil {
			b.t.Fatalf("Failed to marshal layer %s: %v", layer.ID, err)
		}
		write(filepath.Join(schema.LayersDir, layer.ID+".yaml"), data)
	}
	for _, nt := range b.types {
		data, err := schema.MarshalNodeType(nt)
		if err != nil {
			b.t.Fatalf("Failed to marshal node type %s: %v", nt.ID, err)
		}
		write(filepath.Join(schema.NodeTypesDir, nt.ID+".yaml"), data)
	}
	for _, rel := range b.rels {
		data, err := schema.MarshalRelationship(rel)
		if err != nil {
			b.t.Fatalf("Failed to marshal relationship %s: %v", rel.ID, err)
		}
		write(filepath.Join(schema.RelationshipsDir, rel.ID+".yaml"), data)
	}

	g, err := schema.Load(dir)
	if err != nil {
		b.t.Fatalf("Load failed: %v", err)
	}
	if len(g.Completeness) != 0 {
		b.t.Fatalf("Fixture spec has completeness findings: %v", g.Completeness)
	}
	return g
}
