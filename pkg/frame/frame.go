// Package frame derives the collapsed view of frame nodes. Nothing here is
// stored: collapsing a frame only changes how its members and edges are
// routed for rendering.
package frame

import (
	"sort"

	"github.com/aretw0/canvas/pkg/domain"
)

// Aggregated port ID suffixes.
const (
	InputSuffix  = ":in"
	OutputSuffix = ":out"
)

// AggregatedPort stands for every edge crossing the frame boundary in one
// direction.
type AggregatedPort struct {
	ID    string   `json:"id"`
	Edges []string `json:"edges"`
}

// View is the derived shape of a collapsed frame.
type View struct {
	FrameID    string         `json:"frameId"`
	Members    []string       `json:"members"`
	InputPort  AggregatedPort `json:"inputPort"`
	OutputPort AggregatedPort `json:"outputPort"`

	// Suppressed lists edges with both endpoints inside the frame.
	Suppressed []string `json:"suppressed"`
}

// Contained returns the IDs of every node nested under frameID, directly or
// through inner frames, in lexical order.
func Contained(g domain.Graph, frameID string) []string {
	children := make(map[string][]string)
	for _, n := range g.Nodes {
		if n.ParentFrameID != "" {
			children[n.ParentFrameID] = append(children[n.ParentFrameID], n.ID)
		}
	}

	seen := map[string]bool{frameID: true}
	var out []string
	queue := []string{frameID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, c := range children[id] {
			if seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
			queue = append(queue, c)
		}
	}
	sort.Strings(out)
	return out
}

// Collapse computes the aggregated ports and suppressed edges of frameID as
// if it were collapsed. It returns false when frameID is not a frame.
func Collapse(g domain.Graph, frameID string) (View, bool) {
	f, ok := g.Node(frameID)
	if !ok || !f.IsFrame() {
		return View{}, false
	}

	members := Contained(g, frameID)
	inside := make(map[string]bool, len(members)+1)
	inside[frameID] = true
	for _, id := range members {
		inside[id] = true
	}

	v := View{
		FrameID:    frameID,
		Members:    members,
		InputPort:  AggregatedPort{ID: frameID + InputSuffix, Edges: []string{}},
		OutputPort: AggregatedPort{ID: frameID + OutputSuffix, Edges: []string{}},
		Suppressed: []string{},
	}
	for _, e := range g.Edges {
		src, dst := inside[e.SourceNodeID], inside[e.TargetNodeID]
		switch {
		case src && dst:
			v.Suppressed = append(v.Suppressed, e.ID)
		case dst:
			v.InputPort.Edges = append(v.InputPort.Edges, e.ID)
		case src:
			v.OutputPort.Edges = append(v.OutputPort.Edges, e.ID)
		}
	}
	return v, true
}

// Collapsed returns the views of every collapsed frame in the graph.
func Collapsed(g domain.Graph) []View {
	var out []View
	for _, n := range g.Nodes {
		if n.IsFrame() && n.Collapsed {
			if v, ok := Collapse(g, n.ID); ok {
				out = append(out, v)
			}
		}
	}
	return out
}

// Representatives maps each node hidden inside a collapsed frame to the
// outermost collapsed frame that stands in for it. Visible nodes are absent.
func Representatives(g domain.Graph) map[string]string {
	byID := make(map[string]domain.Node, len(g.Nodes))
	for _, n := range g.Nodes {
		byID[n.ID] = n
	}

	reps := make(map[string]string)
	for _, n := range g.Nodes {
		rep := ""
		seen := map[string]bool{n.ID: true}
		for parent := n.ParentFrameID; parent != "" && !seen[parent]; {
			seen[parent] = true
			p, ok := byID[parent]
			if !ok {
				break
			}
			if p.IsFrame() && p.Collapsed {
				rep = p.ID
			}
			parent = p.ParentFrameID
		}
		if rep != "" {
			reps[n.ID] = rep
		}
	}
	return reps
}

// VisibleNodes returns the nodes not hidden by a collapsed frame.
func VisibleNodes(g domain.Graph) []domain.Node {
	reps := Representatives(g)
	out := make([]domain.Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, hidden := reps[n.ID]; !hidden {
			out = append(out, n)
		}
	}
	return out
}

// VisibleEdges returns the edges to render. Endpoints hidden inside a
// collapsed frame are rerouted to that frame's aggregated ports, and edges
// whose rerouted endpoints coincide are dropped. Edges with a missing
// endpoint are dropped as well.
func VisibleEdges(g domain.Graph) []domain.Edge {
	idx := g.NodeIndex()
	reps := Representatives(g)

	out := make([]domain.Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		if _, ok := idx[e.SourceNodeID]; !ok {
			continue
		}
		if _, ok := idx[e.TargetNodeID]; !ok {
			continue
		}

		routed := e
		rerouted := false
		if rep, ok := reps[e.SourceNodeID]; ok {
			routed.SourceNodeID = rep
			routed.SourcePortID = rep + OutputSuffix
			rerouted = true
		}
		if rep, ok := reps[e.TargetNodeID]; ok {
			routed.TargetNodeID = rep
			routed.TargetPortID = rep + InputSuffix
			rerouted = true
		}
		if rerouted && routed.SourceNodeID == routed.TargetNodeID {
			continue
		}
		out = append(out, routed)
	}
	return out
}
