package dsl

import "github.com/aretw0/canvas/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node    domain.Node
	links   []link
	builder *Builder
}

type link struct {
	id         string
	target     string
	sourcePort string
	targetPort string
	status     domain.ExecutionStatus
}

// Type sets the node type.
func (n *NodeBuilder) Type(t string) *NodeBuilder {
	n.node.Type = t
	return n
}

// Name sets the display name.
func (n *NodeBuilder) Name(name string) *NodeBuilder {
	n.node.Name = name
	return n
}

// At places the node's top-left corner in canvas space.
func (n *NodeBuilder) At(x, y float64) *NodeBuilder {
	n.node.Position = domain.Point{X: x, Y: y}
	return n
}

// Size sets an explicit size; nodes without one use the default footprint.
func (n *NodeBuilder) Size(width, height float64) *NodeBuilder {
	n.node.Size = &domain.Size{Width: width, Height: height}
	return n
}

// In adds input ports.
func (n *NodeBuilder) In(ids ...string) *NodeBuilder {
	for _, id := range ids {
		n.node.Ports.Inputs = append(n.node.Ports.Inputs, domain.Port{ID: id})
	}
	return n
}

// Out adds output ports.
func (n *NodeBuilder) Out(ids ...string) *NodeBuilder {
	for _, id := range ids {
		n.node.Ports.Outputs = append(n.node.Ports.Outputs, domain.Port{ID: id})
	}
	return n
}

// Config adds a configuration value.
func (n *NodeBuilder) Config(key string, value any) *NodeBuilder {
	if n.node.Configuration == nil {
		n.node.Configuration = make(map[string]any)
	}
	n.node.Configuration[key] = value
	return n
}

// Status sets the execution status reported for the node.
func (n *NodeBuilder) Status(s domain.ExecutionStatus) *NodeBuilder {
	n.node.Status = s
	return n
}

// Within makes the node a member of a frame.
func (n *NodeBuilder) Within(frameID string) *NodeBuilder {
	n.node.ParentFrameID = frameID
	return n
}

// Collapsed folds a frame.
func (n *NodeBuilder) Collapsed() *NodeBuilder {
	n.node.Collapsed = true
	return n
}

// Go connects the node's first output to the target's first input.
func (n *NodeBuilder) Go(target string) *NodeBuilder {
	n.links = append(n.links, link{target: target})
	return n
}

// Connect adds an edge between explicit ports.
func (n *NodeBuilder) Connect(sourcePort, target, targetPort string) *NodeBuilder {
	n.links = append(n.links, link{target: target, sourcePort: sourcePort, targetPort: targetPort})
	return n
}

// Edge adds a fully specified edge, with an ID and a status override.
func (n *NodeBuilder) Edge(id, target string, status domain.ExecutionStatus) *NodeBuilder {
	n.links = append(n.links, link{id: id, target: target, status: status})
	return n
}

// Build returns the underlying domain.Node.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Build() domain.Node {
	return n.node
}
