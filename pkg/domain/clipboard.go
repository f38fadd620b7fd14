package domain

// Clipboard interchange format identifiers.
const (
	ClipboardType    = "nuraly-workflow-nodes"
	ClipboardVersion = "1.0"
)

// ClipboardDocument is an immutable snapshot of a copied selection.
// CopyOrigin is the bounding-box center of the copied nodes and anchors the
// offset applied on paste.
type ClipboardDocument struct {
	Type       string `json:"type"`
	Version    string `json:"version"`
	Nodes      []Node `json:"nodes"`
	Edges      []Edge `json:"edges"`
	CopyOrigin Point  `json:"copyOrigin"`
}

// NewClipboardDocument builds a tagged document and computes its origin.
func NewClipboardDocument(nodes []Node, edges []Edge) *ClipboardDocument {
	if nodes == nil {
		nodes = []Node{}
	}
	if edges == nil {
		edges = []Edge{}
	}
	return &ClipboardDocument{
		Type:       ClipboardType,
		Version:    ClipboardVersion,
		Nodes:      nodes,
		Edges:      edges,
		CopyOrigin: SelectionOrigin(nodes),
	}
}

// SelectionOrigin returns the center of the bounding box of the given nodes,
// each counted with the DefaultNodeSize footprint. It returns the zero point
// for an empty slice.
func SelectionOrigin(nodes []Node) Point {
	if len(nodes) == 0 {
		return Point{}
	}
	box := nodes[0].Footprint()
	for _, n := range nodes[1:] {
		box = box.Union(n.Footprint())
	}
	return box.Center()
}
