package domain

// Edge is a directed relation from an output port of one node to an input port
// of another. It does not own its endpoints: nodes may be deleted independently,
// and callers prune the edges left dangling.
type Edge struct {
	ID           string `json:"id" yaml:"id" mapstructure:"id"`
	SourceNodeID string `json:"sourceNodeId" yaml:"sourceNodeId" mapstructure:"sourceNodeId"`
	TargetNodeID string `json:"targetNodeId" yaml:"targetNodeId" mapstructure:"targetNodeId"`
	SourcePortID string `json:"sourcePortId,omitempty" yaml:"sourcePortId,omitempty" mapstructure:"sourcePortId"`
	TargetPortID string `json:"targetPortId,omitempty" yaml:"targetPortId,omitempty" mapstructure:"targetPortId"`

	// Status overrides the execution-derived coloring when set.
	Status ExecutionStatus `json:"status,omitempty" yaml:"status,omitempty" mapstructure:"status"`
}

// Touches reports whether either endpoint is the given node.
func (e Edge) Touches(nodeID string) bool {
	return e.SourceNodeID == nodeID || e.TargetNodeID == nodeID
}
