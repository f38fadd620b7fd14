// Package validator reports inconsistencies of a canvas graph that the
// editor tolerates but a stored document should not carry.
package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/canvas/pkg/domain"
)

// Issues lists every problem found in g: broken edge endpoints, undeclared
// ports, members of non-frame nodes and frame nesting cycles.
func Issues(g domain.Graph) []string {
	var issues []string
	if err := g.Validate(); err != nil {
		issues = append(issues, err.Error())
	}

	nodes := make(map[string]domain.Node, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes[n.ID] = n
	}

	for _, e := range g.Edges {
		src, okSrc := nodes[e.SourceNodeID]
		dst, okDst := nodes[e.TargetNodeID]
		if !okSrc {
			issues = append(issues, fmt.Sprintf("Missing node '%s' (source of edge '%s')", e.SourceNodeID, e.ID))
		}
		if !okDst {
			issues = append(issues, fmt.Sprintf("Missing node '%s' (target of edge '%s')", e.TargetNodeID, e.ID))
		}
		if okSrc && !hasPort(src.Ports.Outputs, e.SourcePortID) {
			issues = append(issues, fmt.Sprintf("Edge '%s' leaves undeclared port '%s' of '%s'", e.ID, e.SourcePortID, src.ID))
		}
		if okDst && !hasPort(dst.Ports.Inputs, e.TargetPortID) {
			issues = append(issues, fmt.Sprintf("Edge '%s' enters undeclared port '%s' of '%s'", e.ID, e.TargetPortID, dst.ID))
		}
	}

	for _, n := range g.Nodes {
		if n.ParentFrameID == "" {
			continue
		}
		if parent, ok := nodes[n.ParentFrameID]; ok && !parent.IsFrame() {
			issues = append(issues, fmt.Sprintf("Node '%s' is inside '%s', which is not a frame", n.ID, parent.ID))
		}
	}

	return append(issues, cycles(nodes, g.Nodes)...)
}

// hasPort accepts an empty port ID and nodes that declare no ports on that side.
func hasPort(ports []domain.Port, id string) bool {
	if id == "" || len(ports) == 0 {
		return true
	}
	for _, p := range ports {
		if p.ID == id {
			return true
		}
	}
	return false
}

// cycles walks each node's frame ancestry and reports nodes that reach
// themselves.
func cycles(byID map[string]domain.Node, nodes []domain.Node) []string {
	var issues []string
	for _, n := range nodes {
		visited := map[string]bool{n.ID: true}
		current := n.ParentFrameID
		for current != "" {
			if visited[current] {
				if current == n.ID {
					issues = append(issues, fmt.Sprintf("Frame cycle through '%s'", n.ID))
				}
				break
			}
			visited[current] = true
			current = byID[current].ParentFrameID
		}
	}
	return issues
}

// ValidateGraph returns an error listing every issue of g, or nil.
func ValidateGraph(g domain.Graph) error {
	issues := Issues(g)
	if len(issues) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(issues), strings.Join(issues, "\n- "))
	}
	return nil
}
