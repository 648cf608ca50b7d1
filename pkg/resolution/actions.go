package resolution

import (
	"fmt"
	"strings"

	"github.com/tinkermonkey/specaudit/pkg/model"
	"github.com/tinkermonkey/specaudit/pkg/schema"
)

// plan is the outcome of pre-evaluating one action against live state: a
// transaction to apply (possibly empty), the disposition to journal, and the
// reasoning behind it. A nil error with an empty transaction means nothing
// needs writing (already implemented, or no automation exists).
type plan struct {
	tx          Transaction
	disposition model.Disposition
	reasoning   string
}

func alreadyImplemented(reason string) (plan, error) {
	return plan{disposition: model.DispositionAlreadyImplemented, reasoning: reason}, nil
}

func noAutomation(reason string) (plan, error) {
	return plan{disposition: model.DispositionSkipped, reasoning: reason}, nil
}

// planCreateRelationship declares a new relationship file for a gap
// candidate. The alternative direction reverses the edge using the
// predicate's catalog inverse.
func planCreateRelationship(g *schema.Graph, gap *model.GapCandidate, alternative bool) (plan, error) {
	src, dst, predicate := gap.SourceType, gap.DestType, gap.Predicate
	if alternative {
		pred, ok := g.Predicates[predicate]
		if !ok || pred.Inverse == "" {
			return plan{}, &ConflictError{Target: predicate, Reason: "no catalog inverse to build the alternative direction"}
		}
		src, dst, predicate = dst, src, pred.Inverse
	}

	srcType, ok := g.NodeTypes[src]
	if !ok {
		return plan{}, &ConflictError{Target: src, Reason: "source node type no longer exists"}
	}
	dstType, ok := g.NodeTypes[dst]
	if !ok {
		return plan{}, &ConflictError{Target: dst, Reason: "destination node type no longer exists"}
	}
	if _, ok := g.Predicates[predicate]; !ok {
		return plan{}, &ConflictError{Target: predicate, Reason: "predicate missing from catalog"}
	}
	for _, sibling := range g.Between(src, dst) {
		if sibling.Predicate == predicate {
			return alreadyImplemented(fmt.Sprintf("relationship %s already declared", sibling.ID))
		}
	}

	rel := &model.RelationshipType{
		ID:          model.RelationshipID(src, predicate, dst),
		SourceLayer: srcType.Layer,
		SourceType:  src,
		Predicate:   predicate,
		DestLayer:   dstType.Layer,
		DestType:    dst,
		Cardinality: model.ManyToMany,
		Strength:    model.StrengthInferred,
	}
	data, err := schema.MarshalRelationship(rel)
	if err != nil {
		return plan{}, err
	}

	disposition := model.DispositionApplied
	if alternative {
		disposition = model.DispositionAppliedAlternative
	}
	return plan{
		tx:          Transaction{Writes: []FileWrite{{Path: schema.RelationshipPath(g.Dir, rel.ID), Data: data}}},
		disposition: disposition,
		reasoning:   fmt.Sprintf("declared %s", rel.ID),
	}, nil
}

// planRemoveRelationship deletes one relationship file; used for duplicates
// (primary removes B, alternative removes A) and for inverted-direction
// connectivity findings.
func planRemoveRelationship(g *schema.Graph, relID string, disposition model.Disposition) (plan, error) {
	if _, ok := g.Relationships[relID]; !ok {
		return alreadyImplemented(fmt.Sprintf("relationship %s no longer exists", relID))
	}
	return plan{
		tx:          Transaction{Deletes: []string{schema.RelationshipPath(g.Dir, relID)}},
		disposition: disposition,
		reasoning:   fmt.Sprintf("removed %s", relID),
	}, nil
}

// planReverseRelationship rewrites a relationship with swapped endpoints,
// renaming the predicate to its catalog inverse when one exists.
func planReverseRelationship(g *schema.Graph, relID string) (plan, error) {
	rel, ok := g.Relationships[relID]
	if !ok {
		return alreadyImplemented(fmt.Sprintf("relationship %s no longer exists", relID))
	}

	predicate := rel.Predicate
	if pred, ok := g.Predicates[predicate]; ok && pred.Inverse != "" {
		predicate = pred.Inverse
	}
	reversed := &model.RelationshipType{
		ID:          model.RelationshipID(rel.DestType, predicate, rel.SourceType),
		SourceLayer: rel.DestLayer,
		SourceType:  rel.DestType,
		Predicate:   predicate,
		DestLayer:   rel.SourceLayer,
		DestType:    rel.SourceType,
		Cardinality: reverseCardinality(rel.Cardinality),
		Strength:    rel.Strength,
		Description: rel.Description,
	}
	for _, sibling := range g.Between(reversed.SourceType, reversed.DestType) {
		if sibling.Predicate == reversed.Predicate {
			return plan{}, &ConflictError{Target: reversed.ID, Reason: "reversed relationship already declared"}
		}
	}

	data, err := schema.MarshalRelationship(reversed)
	if err != nil {
		return plan{}, err
	}
	return plan{
		tx: Transaction{
			Writes:  []FileWrite{{Path: schema.RelationshipPath(g.Dir, reversed.ID), Data: data}},
			Deletes: []string{schema.RelationshipPath(g.Dir, rel.ID)},
		},
		disposition: model.DispositionAppliedAlternative,
		reasoning:   fmt.Sprintf("reversed %s into %s", rel.ID, reversed.ID),
	}, nil
}

func reverseCardinality(c model.Cardinality) model.Cardinality {
	switch c {
	case model.OneToMany:
		return model.ManyToOne
	case model.ManyToOne:
		return model.OneToMany
	default:
		return c
	}
}

// planMove relocates a node type into another layer: a new node-type file
// under the new composite id, both layer manifests, and every dependent
// relationship rewritten, all computed before any write. A same-named type
// already in the destination layer is a conflict and nothing is touched.
func planMove(g *schema.Graph, nodeTypeID, targetLayerID string) (plan, error) {
	nt, ok := g.NodeTypes[nodeTypeID]
	if !ok {
		return plan{}, &ConflictError{Target: nodeTypeID, Reason: "node type no longer exists"}
	}
	if nt.Layer == targetLayerID {
		return alreadyImplemented(fmt.Sprintf("%s already declares layer %s", nodeTypeID, targetLayerID))
	}
	target, ok := g.Layers[targetLayerID]
	if !ok {
		return plan{}, &ConflictError{Target: targetLayerID, Reason: "target layer does not exist"}
	}
	newID := targetLayerID + "." + nt.Type
	if _, exists := g.NodeTypes[newID]; exists {
		return plan{}, &ConflictError{Target: newID, Reason: fmt.Sprintf("layer %s already declares a type named %s", targetLayerID, nt.Type)}
	}

	var tx Transaction

	moved := *nt
	moved.ID = newID
	moved.Layer = targetLayerID
	data, err := schema.MarshalNodeType(&moved)
	if err != nil {
		return plan{}, err
	}
	tx.Writes = append(tx.Writes, FileWrite{Path: schema.NodeTypePath(g.Dir, newID), Data: data})
	tx.Deletes = append(tx.Deletes, schema.NodeTypePath(g.Dir, nodeTypeID))

	// Membership lists are optional; only rewrite the manifests that
	// maintain one.
	if source, ok := g.Layers[nt.Layer]; ok && len(source.NodeTypes) > 0 {
		updated := *source
		updated.NodeTypes = removeString(source.NodeTypes, nodeTypeID)
		w, err := layerWrite(g.Dir, &updated)
		if err != nil {
			return plan{}, err
		}
		tx.Writes = append(tx.Writes, w)
	}
	if len(target.NodeTypes) > 0 {
		updatedTarget := *target
		updatedTarget.NodeTypes = append(append([]string(nil), target.NodeTypes...), newID)
		w, err := layerWrite(g.Dir, &updatedTarget)
		if err != nil {
			return plan{}, err
		}
		tx.Writes = append(tx.Writes, w)
	}

	// Dependent relationships pick up the new composite id on whichever
	// endpoint moved.
	for _, rel := range g.RelationshipsOrdered() {
		if rel.SourceType != nodeTypeID && rel.DestType != nodeTypeID {
			continue
		}
		rewritten := *rel
		if rewritten.SourceType == nodeTypeID {
			rewritten.SourceType = newID
			rewritten.SourceLayer = targetLayerID
		}
		if rewritten.DestType == nodeTypeID {
			rewritten.DestType = newID
			rewritten.DestLayer = targetLayerID
		}
		rewritten.ID = model.RelationshipID(rewritten.SourceType, rewritten.Predicate, rewritten.DestType)
		data, err := schema.MarshalRelationship(&rewritten)
		if err != nil {
			return plan{}, err
		}
		tx.Writes = append(tx.Writes, FileWrite{Path: schema.RelationshipPath(g.Dir, rewritten.ID), Data: data})
		tx.Deletes = append(tx.Deletes, schema.RelationshipPath(g.Dir, rel.ID))
	}

	return plan{
		tx:          tx,
		disposition: model.DispositionApplied,
		reasoning:   fmt.Sprintf("moved %s to layer %s as %s", nodeTypeID, targetLayerID, newID),
	}, nil
}

// planRemoveNodeType deletes a node type with its layer membership entry and
// every dependent relationship.
func planRemoveNodeType(g *schema.Graph, nodeTypeID string) (plan, error) {
	nt, ok := g.NodeTypes[nodeTypeID]
	if !ok {
		return alreadyImplemented(fmt.Sprintf("node type %s no longer exists", nodeTypeID))
	}

	var tx Transaction
	if layer, ok := g.Layers[nt.Layer]; ok && len(layer.NodeTypes) > 0 {
		updated := *layer
		updated.NodeTypes = removeString(layer.NodeTypes, nodeTypeID)
		w, err := layerWrite(g.Dir, &updated)
		if err != nil {
			return plan{}, err
		}
		tx.Writes = append(tx.Writes, w)
	}
	tx.Deletes = append(tx.Deletes, schema.NodeTypePath(g.Dir, nodeTypeID))
	for _, rel := range g.RelationshipsOrdered() {
		if rel.SourceType == nodeTypeID || rel.DestType == nodeTypeID {
			tx.Deletes = append(tx.Deletes, schema.RelationshipPath(g.Dir, rel.ID))
		}
	}

	return plan{
		tx:          tx,
		disposition: model.DispositionApplied,
		reasoning:   fmt.Sprintf("removed %s and its dependent relationships", nodeTypeID),
	}, nil
}

// planAddAttribute appends one attribute definition to a node type.
func planAddAttribute(g *schema.Graph, nodeTypeID string, attr model.AttributeDef) (plan, error) {
	nt, ok := g.NodeTypes[nodeTypeID]
	if !ok {
		return plan{}, &ConflictError{Target: nodeTypeID, Reason: "node type no longer exists"}
	}
	for _, existing := range nt.Attributes {
		if existing.Name == attr.Name {
			return alreadyImplemented(fmt.Sprintf("%s already declares attribute %s", nodeTypeID, attr.Name))
		}
	}

	updated := *nt
	updated.Attributes = append(append([]model.AttributeDef(nil), nt.Attributes...), attr)
	data, err := schema.MarshalNodeType(&updated)
	if err != nil {
		return plan{}, err
	}
	return plan{
		tx:          Transaction{Writes: []FileWrite{{Path: schema.NodeTypePath(g.Dir, nodeTypeID), Data: data}}},
		disposition: model.DispositionApplied,
		reasoning:   fmt.Sprintf("added attribute %s to %s", attr.Name, nodeTypeID),
	}, nil
}

// planClarify appends a review note to a node type's description.
func planClarify(g *schema.Graph, nodeTypeID, note string) (plan, error) {
	nt, ok := g.NodeTypes[nodeTypeID]
	if !ok {
		return plan{}, &ConflictError{Target: nodeTypeID, Reason: "node type no longer exists"}
	}
	if strings.Contains(nt.Description, note) {
		return alreadyImplemented(fmt.Sprintf("%s already carries the clarification note", nodeTypeID))
	}

	updated := *nt
	if updated.Description != "" {
		updated.Description += " "
	}
	updated.Description += note
	data, err := schema.MarshalNodeType(&updated)
	if err != nil {
		return plan{}, err
	}
	return plan{
		tx:          Transaction{Writes: []FileWrite{{Path: schema.NodeTypePath(g.Dir, nodeTypeID), Data: data}}},
		disposition: model.DispositionApplied,
		reasoning:   fmt.Sprintf("clarified description of %s", nodeTypeID),
	}, nil
}

// planCollapseAttributes merges attribute definitions that differ only in
// case, keeping the first declaration of each name.
func planCollapseAttributes(g *schema.Graph, nodeTypeID string) (plan, error) {
	nt, ok := g.NodeTypes[nodeTypeID]
	if !ok {
		return plan{}, &ConflictError{Target: nodeTypeID, Reason: "node type no longer exists"}
	}

	seen := make(map[string]bool)
	var kept []model.AttributeDef
	for _, attr := range nt.Attributes {
		key := strings.ToLower(attr.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, attr)
	}
	if len(kept) == len(nt.Attributes) {
		return alreadyImplemented(fmt.Sprintf("%s has no collapsible attributes", nodeTypeID))
	}

	updated := *nt
	updated.Attributes = kept
	data, err := schema.MarshalNodeType(&updated)
	if err != nil {
		return plan{}, err
	}
	return plan{
		tx:          Transaction{Writes: []FileWrite{{Path: schema.NodeTypePath(g.Dir, nodeTypeID), Data: data}}},
		disposition: model.DispositionApplied,
		reasoning:   fmt.Sprintf("collapsed %d duplicate attribute(s) on %s", len(nt.Attributes)-len(kept), nodeTypeID),
	}, nil
}

func layerWrite(dir string, layer *model.Layer) (FileWrite, error) {
	data, err := schema.MarshalLayer(layer)
	if err != nil {
		return FileWrite{}, err
	}
	return FileWrite{Path: schema.LayerPath(dir, layer.ID), Data: data}, nil
}

func removeString(list []string, value string) []string {
	var out []string
	for _, s := range list {
		if s != value {
			out = append(out, s)
		}
	}
	return out
}
