package edges

import (
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/frame"
)

// Rendered is everything a renderer needs to paint one edge.
type Rendered struct {
	EdgeID       string                 `json:"edgeId"`
	SourceNodeID string                 `json:"sourceNodeId"`
	TargetNodeID string                 `json:"targetNodeId"`
	Status       domain.ExecutionStatus `json:"status,omitempty"`
	Curve        Bezier                 `json:"curve"`
	Path         string                 `json:"path"`
	Arrow        Arrow                  `json:"arrow"`
}

// Derive computes the visible edges of g. Edges touching a collapsed frame's
// members are routed to the frame, but keep the status of their real
// endpoints.
func Derive(g domain.Graph) []Rendered {
	nodes := make(map[string]*domain.Node, len(g.Nodes))
	for i := range g.Nodes {
		nodes[g.Nodes[i].ID] = &g.Nodes[i]
	}
	original := make(map[string]domain.Edge, len(g.Edges))
	for _, e := range g.Edges {
		original[e.ID] = e
	}

	visible := frame.VisibleEdges(g)
	out := make([]Rendered, 0, len(visible))
	for _, e := range visible {
		src, dst := nodes[e.SourceNodeID], nodes[e.TargetNodeID]
		if src == nil || dst == nil {
			continue
		}
		o := original[e.ID]
		status := DeriveStatus(o, nodes[o.SourceNodeID], nodes[o.TargetNodeID])

		from, to := PortAnchors(*src, *dst, e)
		c := Curve(from, to)
		out = append(out, Rendered{
			EdgeID:       e.ID,
			SourceNodeID: e.SourceNodeID,
			TargetNodeID: e.TargetNodeID,
			Status:       status,
			Curve:        c,
			Path:         c.Path(),
			Arrow:        ArrowOf(c),
		})
	}
	return out
}
