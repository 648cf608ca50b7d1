package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/tinkermonkey/specaudit/pkg/model"
	"github.com/tinkermonkey/specaudit/pkg/validation"
)

// Directory layout under the specification root.
const (
	LayersDir        = "layers"
	NodeTypesDir     = "nodetypes"
	RelationshipsDir = "relationships"
	PredicateCatalog = "predicates.yaml"
)

var validate = validator.New()

// predicateCatalogDoc is the on-disk shape of the predicate catalog.
type predicateCatalogDoc struct {
	Predicates map[string]*model.Predicate `yaml:"predicates"`
}

// Load reads a specification root into a Graph. Malformed or
// identity-incomplete files are excluded and recorded as completeness
// findings; only I/O problems on the root itself fail the load.
func Load(dir string) (*Graph, error) {
	g := NewGraph(dir)

	if err := loadPredicates(g, filepath.Join(dir, PredicateCatalog)); err != nil {
		return nil, err
	}
	if err := loadLayers(g, filepath.Join(dir, LayersDir)); err != nil {
		return nil, err
	}
	if err := loadNodeTypes(g, filepath.Join(dir, NodeTypesDir)); err != nil {
		return nil, err
	}
	if err := loadRelationships(g, filepath.Join(dir, RelationshipsDir)); err != nil {
		return nil, err
	}

	reconcileMembership(g)
	return g, nil
}

// yamlFiles lists *.yaml/*.yml files in dir sorted by name. A missing
// directory is treated as empty so sparse specifications still load.
func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read schema directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func loadPredicates(g *Graph, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		g.recordIssue(path, "predicate catalog missing")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read predicate catalog: %w", err)
	}

	var doc predicateCatalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		g.recordIssue(path, (&ParseError{File: path, Reason: err.Error()}).Error())
		return nil
	}

	for name, pred := range doc.Predicates {
		if err := validation.ValidatePredicateName(name); err != nil {
			g.recordIssue(path, (&ParseError{File: path, Reason: err.Error()}).Error())
			continue
		}
		if pred == nil {
			g.recordIssue(path, (&ParseError{File: path, Reason: fmt.Sprintf("predicate %s has no body", name)}).Error())
			continue
		}
		pred.Name = name
		g.Predicates[name] = pred
	}
	return nil
}

func loadLayers(g *Graph, dir string) error {
	files, err := yamlFiles(dir)
	if err != nil {
		return err
	}

	for _, path := range files {
		var layer model.Layer
		if !parseDoc(g, path, &layer) {
			continue
		}
		if layer.ID == "" || layer.Number == 0 {
			g.recordIssue(path, (&ParseError{File: path, Reason: "missing layer id or number"}).Error())
			continue
		}
		if err := validation.ValidateLayerID(layer.ID); err != nil {
			g.recordIssue(path, (&ParseError{File: path, Reason: err.Error()}).Error())
			continue
		}
		g.Layers[layer.ID] = &layer
	}
	return nil
}

func loadNodeTypes(g *Graph, dir string) error {
	files, err := yamlFiles(dir)
	if err != nil {
		return err
	}

	for _, path := range files {
		var nt model.NodeType
		if !parseDoc(g, path, &nt) {
			continue
		}
		if nt.ID == "" || nt.Layer == "" || nt.Type == "" {
			g.recordIssue(path, (&ParseError{File: path, Reason: "missing id, layer, or type"}).Error())
			continue
		}
		if nt.ID != nt.Layer+"."+nt.Type {
			g.recordIssue(path, (&ParseError{File: path, Reason: fmt.Sprintf("id %q does not match %s.%s", nt.ID, nt.Layer, nt.Type)}).Error())
			continue
		}
		if err := validation.ValidateTypeName(nt.Type); err != nil {
			g.recordIssue(path, (&ParseError{File: path, Reason: err.Error()}).Error())
			continue
		}
		g.NodeTypes[nt.ID] = &nt
	}
	return nil
}

func loadRelationships(g *Graph, dir string) error {
	files, err := yamlFiles(dir)
	if err != nil {
		return err
	}

	for _, path := range files {
		var rel model.RelationshipType
		if !parseDoc(g, path, &rel) {
			continue
		}
		if rel.ID == "" || rel.SourceType == "" || rel.DestType == "" || rel.Predicate == "" {
			g.recordIssue(path, (&ParseError{File: path, Reason: "missing id, source, destination, or predicate"}).Error())
			continue
		}
		if rel.ID != model.RelationshipID(rel.SourceType, rel.Predicate, rel.DestType) {
			g.recordIssue(path, (&ParseError{File: path, Reason: fmt.Sprintf("id %q does not match source, predicate, and destination", rel.ID)}).Error())
			continue
		}
		if !strings.HasPrefix(rel.SourceType, rel.SourceLayer+".") || !strings.HasPrefix(rel.DestType, rel.DestLayer+".") {
			g.recordIssue(path, (&ParseError{File: path, Reason: "declared layers do not match endpoint node type ids"}).Error())
			continue
		}
		if err := linkCheck(g, path, &rel); err != nil {
			g.recordIssue(path, err.Error())
			continue
		}
		g.addRelationship(&rel)
	}
	return nil
}

// parseDoc unmarshals and struct-validates one schema document. On failure
// it records a completeness finding and reports false.
func parseDoc(g *Graph, path string, out any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		g.recordIssue(path, fmt.Sprintf("unreadable: %v", err))
		return false
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		g.recordIssue(path, (&ParseError{File: path, Reason: err.Error()}).Error())
		return false
	}
	if err := validate.Struct(out); err != nil {
		g.recordIssue(path, (&ParseError{File: path, Reason: validation.FormatStructError(err).Error()}).Error())
		return false
	}
	return true
}

// linkCheck verifies that a relationship's endpoints and predicate resolve
// against the already-loaded graph.
func linkCheck(g *Graph, path string, rel *model.RelationshipType) error {
	if _, ok := g.NodeTypes[rel.SourceType]; !ok {
		return &LinkError{File: path, Ref: rel.SourceType, Reason: "unknown source node type"}
	}
	if _, ok := g.NodeTypes[rel.DestType]; !ok {
		return &LinkError{File: path, Ref: rel.DestType, Reason: "unknown destination node type"}
	}
	if _, ok := g.Predicates[rel.Predicate]; !ok {
		return &LinkError{File: path, Ref: rel.Predicate, Reason: "predicate not in catalog"}
	}
	for _, sibling := range g.Between(rel.SourceType, rel.DestType) {
		if sibling.Predicate == rel.Predicate {
			return &LinkError{File: path, Ref: rel.ID, Reason: fmt.Sprintf("predicate %q already declared between %s and %s", rel.Predicate, rel.SourceType, rel.DestType)}
		}
	}
	return nil
}

// reconcileMembership cross-checks each layer's declared node-type list
// against the set of node types declaring that layer. Mismatches in either
// direction are completeness findings.
func reconcileMembership(g *Graph) {
	for _, layer := range g.LayersOrdered() {
		if len(layer.NodeTypes) == 0 {
			continue
		}
		declared := make(map[string]bool, len(layer.NodeTypes))
		for _, id := range layer.NodeTypes {
			declared[id] = true
			nt, ok := g.NodeTypes[id]
			if !ok {
				g.recordIssue(LayerPath(g.Dir, layer.ID), fmt.Sprintf("layer %s lists unknown node type %s", layer.ID, id))
				continue
			}
			if nt.Layer != layer.ID {
				g.recordIssue(LayerPath(g.Dir, layer.ID), fmt.Sprintf("node type %s listed in layer %s but declares layer %s", id, layer.ID, nt.Layer))
			}
		}
		for _, nt := range g.NodeTypesInLayer(layer.ID) {
			if !declared[nt.ID] {
				g.recordIssue(LayerPath(g.Dir, layer.ID), fmt.Sprintf("node type %s declares layer %s but is missing from its membership list", nt.ID, layer.ID))
			}
		}
	}
}

// SplitCompositeID breaks a "{layer}.{type}" id into its parts.
func SplitCompositeID(id string) (layer, typ string, ok bool) {
	i := strings.Index(id, ".")
	if i <= 0 || i == len(id)-1 {
		return "", "", false
	}
	return id[:i], id[i+1:], true
}
