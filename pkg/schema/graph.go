package schema

import (
	"sort"

	"golang.org/x/exp/maps"

	"github.com/tinkermonkey/specaudit/pkg/model"
)

// Graph is the in-memory view of one loaded specification. It is read-only
// after Load returns; every analyzer takes it by value reference and never
// mutates it. The resolution engine rewrites the canonical files instead and
// the next run reloads from scratch.
type Graph struct {
	Dir           string
	Layers        map[string]*model.Layer
	NodeTypes     map[string]*model.NodeType
	Relationships map[string]*model.RelationshipType
	Predicates    map[string]*model.Predicate

	// Completeness records every file the loader had to exclude.
	Completeness []model.CompletenessIssue

	outgoing map[string][]*model.RelationshipType
	incoming map[string][]*model.RelationshipType
}

// NewGraph returns an empty graph rooted at dir.
func NewGraph(dir string) *Graph {
	return &Graph{
		Dir:           dir,
		Layers:        make(map[string]*model.Layer),
		NodeTypes:     make(map[string]*model.NodeType),
		Relationships: make(map[string]*model.RelationshipType),
		Predicates:    make(map[string]*model.Predicate),
		outgoing:      make(map[string][]*model.RelationshipType),
		incoming:      make(map[string][]*model.RelationshipType),
	}
}

// addRelationship registers a relationship in both direction indexes.
func (g *Graph) addRelationship(rel *model.RelationshipType) {
	g.Relationships[rel.ID] = rel
	g.outgoing[rel.SourceType] = append(g.outgoing[rel.SourceType], rel)
	g.incoming[rel.DestType] = append(g.incoming[rel.DestType], rel)
}

// Outgoing returns relationships whose source is the given node type id.
func (g *Graph) Outgoing(nodeTypeID string) []*model.RelationshipType {
	return g.outgoing[nodeTypeID]
}

// Incoming returns relationships whose destination is the given node type id.
func (g *Graph) Incoming(nodeTypeID string) []*model.RelationshipType {
	return g.incoming[nodeTypeID]
}

// IncidentCount returns the number of edges touching a node type in either
// direction.
func (g *Graph) IncidentCount(nodeTypeID string) int {
	return len(g.outgoing[nodeTypeID]) + len(g.incoming[nodeTypeID])
}

// Between returns all relationships from src to dst, sorted by id.
func (g *Graph) Between(srcID, dstID string) []*model.RelationshipType {
	var out []*model.RelationshipType
	for _, rel := range g.outgoing[srcID] {
		if rel.DestType == dstID {
			out = append(out, rel)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NodeTypesInLayer returns the node types declaring the given layer, sorted
// by id for deterministic iteration.
func (g *Graph) NodeTypesInLayer(layerID string) []*model.NodeType {
	var out []*model.NodeType
	for _, nt := range g.NodeTypes {
		if nt.Layer == layerID {
			out = append(out, nt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LayersOrdered returns all layers sorted by their ordinal number.
func (g *Graph) LayersOrdered() []*model.Layer {
	out := maps.Values(g.Layers)
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// RelationshipsOrdered returns all relationships sorted by id.
func (g *Graph) RelationshipsOrdered() []*model.RelationshipType {
	out := maps.Values(g.Relationships)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NodeTypesOrdered returns all node types sorted by id.
func (g *Graph) NodeTypesOrdered() []*model.NodeType {
	out := maps.Values(g.NodeTypes)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PredicatesOrdered returns all catalog predicates sorted by name.
func (g *Graph) PredicatesOrdered() []*model.Predicate {
	out := maps.Values(g.Predicates)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// UsedPredicates returns the set of predicate names referenced by at least
// one relationship.
func (g *Graph) UsedPredicates() map[string]bool {
	used := make(map[string]bool)
	for _, rel := range g.Relationships {
		used[rel.Predicate] = true
	}
	return used
}

// WithRelationships derives a new graph that shares the loaded entities but
// carries extra relationships on top. Candidates that fail link checks or
// collide with an existing (source, destination, predicate) triple are
// skipped; the count of applied candidates is returned. The receiver is not
// modified.
func (g *Graph) WithRelationships(extra []*model.RelationshipType) (*Graph, int) {
	derived := NewGraph(g.Dir)
	derived.Layers = g.Layers
	derived.NodeTypes = g.NodeTypes
	derived.Predicates = g.Predicates
	derived.Completeness = g.Completeness
	for _, rel := range g.RelationshipsOrdered() {
		derived.addRelationship(rel)
	}

	applied := 0
	for _, rel := range extra {
		if _, ok := derived.NodeTypes[rel.SourceType]; !ok {
			continue
		}
		if _, ok := derived.NodeTypes[rel.DestType]; !ok {
			continue
		}
		if _, ok := derived.Predicates[rel.Predicate]; !ok {
			continue
		}
		duplicate := false
		for _, sibling := range derived.Between(rel.SourceType, rel.DestType) {
			if sibling.Predicate == rel.Predicate {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		derived.addRelationship(rel)
		applied++
	}
	return derived, applied
}

// recordIssue appends a completeness finding for an excluded file.
func (g *Graph) recordIssue(file, reason string) {
	g.Completeness = append(g.Completeness, model.CompletenessIssue{File: file, Reason: reason})
}
