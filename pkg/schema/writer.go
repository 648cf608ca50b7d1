package schema

import (
	"fmt"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/tinkermonkey/specaudit/pkg/model"
)

// Canonical file paths for each entity kind. The resolution engine plans
// writes against these so remediation output lands exactly where the loader
// reads.

// LayerPath returns the canonical path of a layer manifest.
func LayerPath(dir, layerID string) string {
	return filepath.Join(dir, LayersDir, layerID+".yaml")
}

// NodeTypePath returns the canonical path of a node-type file.
func NodeTypePath(dir, nodeTypeID string) string {
	return filepath.Join(dir, NodeTypesDir, nodeTypeID+".yaml")
}

// RelationshipPath returns the canonical path of a relationship-type file.
func RelationshipPath(dir, relID string) string {
	return filepath.Join(dir, RelationshipsDir, relID+".yaml")
}

// MarshalLayer renders a layer manifest in canonical form. Membership lists
// are sorted so repeated writes of the same layer are byte-identical.
func MarshalLayer(layer *model.Layer) ([]byte, error) {
	clone := *layer
	clone.NodeTypes = append([]string(nil), layer.NodeTypes...)
	sort.Strings(clone.NodeTypes)
	data, err := yaml.Marshal(&clone)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal layer %s: %w", layer.ID, err)
	}
	return data, nil
}

// MarshalNodeType renders a node-type file in canonical form.
func MarshalNodeType(nt *model.NodeType) ([]byte, error) {
	data, err := yaml.Marshal(nt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal node type %s: %w", nt.ID, err)
	}
	return data, nil
}

// MarshalRelationship renders a relationship-type file in canonical form.
func MarshalRelationship(rel *model.RelationshipType) ([]byte, error) {
	data, err := yaml.Marshal(rel)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal relationship %s: %w", rel.ID, err)
	}
	return data, nil
}
