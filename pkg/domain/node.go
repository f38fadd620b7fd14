package domain

// NodeTypeFrame marks a container node that visually groups other nodes.
const NodeTypeFrame = "frame"

// DefaultNodeSize is the footprint assumed for nodes that carry no explicit size.
// Bounding boxes of selections are computed with it, so they are approximate for
// irregularly sized nodes.
var DefaultNodeSize = Size{Width: 200, Height: 80}

// Port is a connection point on a node.
type Port struct {
	ID   string `json:"id" yaml:"id" mapstructure:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Type string `json:"type,omitempty" yaml:"type,omitempty" mapstructure:"type"`
}

// Ports groups the input and output ports of a node.
type Ports struct {
	Inputs  []Port `json:"inputs,omitempty" yaml:"inputs,omitempty" mapstructure:"inputs"`
	Outputs []Port `json:"outputs,omitempty" yaml:"outputs,omitempty" mapstructure:"outputs"`
}

// Node represents a positioned unit of the workflow graph.
type Node struct {
	ID   string `json:"id" yaml:"id" mapstructure:"id"`
	Type string `json:"type" yaml:"type" mapstructure:"type"`
	Name string `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`

	// Position is the top-left corner in canvas space.
	Position Point `json:"position" yaml:"position" mapstructure:"position"`

	// Size is optional; DefaultNodeSize applies when nil.
	Size *Size `json:"size,omitempty" yaml:"size,omitempty" mapstructure:"size"`

	// ParentFrameID, if set, references the frame node containing this node.
	ParentFrameID string `json:"parentFrameId,omitempty" yaml:"parentFrameId,omitempty" mapstructure:"parentFrameId"`

	Ports         Ports           `json:"ports" yaml:"ports" mapstructure:"ports"`
	Configuration map[string]any  `json:"configuration,omitempty" yaml:"configuration,omitempty" mapstructure:"configuration"`
	Status        ExecutionStatus `json:"status,omitempty" yaml:"status,omitempty" mapstructure:"status"`

	// Collapsed only has meaning for frame nodes.
	Collapsed bool `json:"collapsed,omitempty" yaml:"collapsed,omitempty" mapstructure:"collapsed"`
}

// IsFrame reports whether the node is a container frame.
func (n Node) IsFrame() bool {
	return n.Type == NodeTypeFrame
}

// Dimensions returns the explicit size or the default footprint.
func (n Node) Dimensions() Size {
	if n.Size != nil {
		return *n.Size
	}
	return DefaultNodeSize
}

// Bounds returns the rectangle the node occupies in canvas space.
func (n Node) Bounds() Rect {
	d := n.Dimensions()
	return Rect{X: n.Position.X, Y: n.Position.Y, Width: d.Width, Height: d.Height}
}

// Footprint returns the rectangle used for selection bounding boxes,
// always DefaultNodeSize regardless of the measured size.
func (n Node) Footprint() Rect {
	return Rect{X: n.Position.X, Y: n.Position.Y, Width: DefaultNodeSize.Width, Height: DefaultNodeSize.Height}
}

// Clone returns a copy that shares no slices or top-level maps with n.
// Nested configuration values are still shared.
func (n Node) Clone() Node {
	c := n
	if n.Size != nil {
		s := *n.Size
		c.Size = &s
	}
	c.Ports = Ports{
		Inputs:  append([]Port(nil), n.Ports.Inputs...),
		Outputs: append([]Port(nil), n.Ports.Outputs...),
	}
	if n.Configuration != nil {
		c.Configuration = make(map[string]any, len(n.Configuration))
		for k, v := range n.Configuration {
			c.Configuration[k] = v
		}
	}
	return c
}
