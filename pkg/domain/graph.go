package domain

import "fmt"

// Graph is a snapshot of the canvas document. Controllers never mutate a Graph
// in place; they derive a new one and hand it to the GraphStore.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// Clone returns a copy whose node and edge slices can be modified freely.
func (g Graph) Clone() Graph {
	c := Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		c.Nodes[i] = n.Clone()
	}
	copy(c.Edges, g.Edges)
	return c
}

// Node looks up a node by ID.
func (g Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Edge looks up an edge by ID.
func (g Graph) Edge(id string) (Edge, bool) {
	for _, e := range g.Edges {
		if e.ID == id {
			return e, true
		}
	}
	return Edge{}, false
}

// NodeIndex maps node IDs to their position in Nodes.
func (g Graph) NodeIndex() map[string]int {
	idx := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		idx[n.ID] = i
	}
	return idx
}

// Names returns the set of display names currently in use.
func (g Graph) Names() map[string]bool {
	names := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.Name != "" {
			names[n.Name] = true
		}
	}
	return names
}

// WithNodes returns a new graph where every node present in updates replaces
// the node with the same ID. Unknown IDs are ignored.
func (g Graph) WithNodes(updates ...Node) Graph {
	if len(updates) == 0 {
		return g
	}
	byID := make(map[string]Node, len(updates))
	for _, u := range updates {
		byID[u.ID] = u
	}
	nodes := make([]Node, len(g.Nodes))
	for i, n := range g.Nodes {
		if u, ok := byID[n.ID]; ok {
			nodes[i] = u
			continue
		}
		nodes[i] = n
	}
	return Graph{Nodes: nodes, Edges: g.Edges}
}

// Merge appends nodes and edges, returning a new graph.
func (g Graph) Merge(nodes []Node, edges []Edge) Graph {
	out := Graph{
		Nodes: make([]Node, 0, len(g.Nodes)+len(nodes)),
		Edges: make([]Edge, 0, len(g.Edges)+len(edges)),
	}
	out.Nodes = append(append(out.Nodes, g.Nodes...), nodes...)
	out.Edges = append(append(out.Edges, g.Edges...), edges...)
	return out
}

// Children returns the nodes whose ParentFrameID is frameID (one level).
func (g Graph) Children(frameID string) []Node {
	var out []Node
	for _, n := range g.Nodes {
		if n.ParentFrameID == frameID {
			out = append(out, n)
		}
	}
	return out
}

// RemoveNodes deletes the given nodes together with every edge incident to
// them, whether or not that edge was itself targeted. Children of a removed
// frame are kept and detached.
func (g Graph) RemoveNodes(ids map[string]bool) (Graph, []Node, []Edge) {
	var removedNodes []Node
	var removedEdges []Edge
	out := Graph{}
	for _, n := range g.Nodes {
		if ids[n.ID] {
			removedNodes = append(removedNodes, n)
			continue
		}
		out.Nodes = append(out.Nodes, n)
	}
	for _, e := range g.Edges {
		if ids[e.SourceNodeID] || ids[e.TargetNodeID] {
			removedEdges = append(removedEdges, e)
			continue
		}
		out.Edges = append(out.Edges, e)
	}
	return out.detachOrphans(), removedNodes, removedEdges
}

// RemoveEdges deletes the given edges.
func (g Graph) RemoveEdges(ids map[string]bool) (Graph, []Edge) {
	var removed []Edge
	out := Graph{Nodes: g.Nodes}
	for _, e := range g.Edges {
		if ids[e.ID] {
			removed = append(removed, e)
			continue
		}
		out.Edges = append(out.Edges, e)
	}
	return out, removed
}

// Prune drops edges whose endpoints no longer exist and clears parent
// references to missing frames.
func (g Graph) Prune() Graph {
	idx := g.NodeIndex()
	out := Graph{Nodes: g.Nodes}
	for _, e := range g.Edges {
		_, okSrc := idx[e.SourceNodeID]
		_, okDst := idx[e.TargetNodeID]
		if okSrc && okDst {
			out.Edges = append(out.Edges, e)
		}
	}
	return out.detachOrphans()
}

func (g Graph) detachOrphans() Graph {
	idx := g.NodeIndex()
	var nodes []Node
	for i, n := range g.Nodes {
		if n.ParentFrameID == "" {
			continue
		}
		if _, ok := idx[n.ParentFrameID]; ok {
			continue
		}
		if nodes == nil {
			nodes = append([]Node(nil), g.Nodes...)
		}
		nodes[i].ParentFrameID = ""
	}
	if nodes == nil {
		return g
	}
	return Graph{Nodes: nodes, Edges: g.Edges}
}

// Validate checks ID uniqueness and reference integrity.
func (g Graph) Validate() error {
	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return fmt.Errorf("%w: node with empty id", ErrInvalidGraph)
		}
		if seen[n.ID] {
			return fmt.Errorf("%w: duplicate node id %q", ErrInvalidGraph, n.ID)
		}
		seen[n.ID] = true
	}
	for _, n := range g.Nodes {
		if n.ParentFrameID != "" && !seen[n.ParentFrameID] {
			return fmt.Errorf("%w: node %q references missing frame %q", ErrInvalidGraph, n.ID, n.ParentFrameID)
		}
	}
	edgeIDs := make(map[string]bool, len(g.Edges))
	for _, e := range g.Edges {
		if edgeIDs[e.ID] {
			return fmt.Errorf("%w: duplicate edge id %q", ErrInvalidGraph, e.ID)
		}
		edgeIDs[e.ID] = true
	}
	return nil
}
