// Package selection holds the transient set of selected node and edge IDs.
//
// IDs are never validated: stale or unknown IDs are tolerated and filtered
// out by consumers, or dropped explicitly with Filter.
package selection

import (
	"sort"

	"github.com/aretw0/canvas/pkg/domain"
)

// Set is the mutable selection of one canvas.
type Set struct {
	nodes map[string]struct{}
	edges map[string]struct{}
}

// New creates an empty selection.
func New() *Set {
	return &Set{
		nodes: make(map[string]struct{}),
		edges: make(map[string]struct{}),
	}
}

// SelectNode selects id. Without additive, everything else is deselected.
func (s *Set) SelectNode(id string, additive bool) {
	if !additive {
		s.Clear()
	}
	s.nodes[id] = struct{}{}
}

// SelectEdge selects id. Without additive, everything else is deselected.
func (s *Set) SelectEdge(id string, additive bool) {
	if !additive {
		s.Clear()
	}
	s.edges[id] = struct{}{}
}

// Toggle flips the selection state of a node.
func (s *Set) Toggle(id string) {
	if _, ok := s.nodes[id]; ok {
		delete(s.nodes, id)
		return
	}
	s.nodes[id] = struct{}{}
}

// ToggleEdge flips the selection state of an edge.
func (s *Set) ToggleEdge(id string) {
	if _, ok := s.edges[id]; ok {
		delete(s.edges, id)
		return
	}
	s.edges[id] = struct{}{}
}

// Clear deselects everything.
func (s *Set) Clear() {
	clear(s.nodes)
	clear(s.edges)
}

// Set replaces the selection.
func (s *Set) Set(nodeIDs, edgeIDs []string) {
	s.Clear()
	for _, id := range nodeIDs {
		s.nodes[id] = struct{}{}
	}
	for _, id := range edgeIDs {
		s.edges[id] = struct{}{}
	}
}

// HasNode reports whether the node is selected.
func (s *Set) HasNode(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// HasEdge reports whether the edge is selected.
func (s *Set) HasEdge(id string) bool {
	_, ok := s.edges[id]
	return ok
}

// NodeIDs returns the selected node IDs in lexical order.
func (s *Set) NodeIDs() []string {
	return sorted(s.nodes)
}

// EdgeIDs returns the selected edge IDs in lexical order.
func (s *Set) EdgeIDs() []string {
	return sorted(s.edges)
}

// IsEmpty reports whether nothing is selected.
func (s *Set) IsEmpty() bool {
	return len(s.nodes) == 0 && len(s.edges) == 0
}

// Snapshot returns an immutable copy of the selection.
func (s *Set) Snapshot() domain.Selection {
	return domain.Selection{NodeIDs: s.NodeIDs(), EdgeIDs: s.EdgeIDs()}
}

// SelectWithin selects every node whose bounds lie entirely inside rect
// (canvas space). Without additive the previous selection is replaced.
func (s *Set) SelectWithin(g domain.Graph, rect domain.Rect, additive bool) {
	if !additive {
		s.Clear()
	}
	rect = rect.Normalize()
	for _, n := range g.Nodes {
		if rect.ContainsRect(n.Bounds()) {
			s.nodes[n.ID] = struct{}{}
		}
	}
}

// Filter drops IDs that no longer exist in g.
func (s *Set) Filter(g domain.Graph) {
	idx := g.NodeIndex()
	for id := range s.nodes {
		if _, ok := idx[id]; !ok {
			delete(s.nodes, id)
		}
	}
	for id := range s.edges {
		if _, ok := g.Edge(id); !ok {
			delete(s.edges, id)
		}
	}
}

func sorted(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
