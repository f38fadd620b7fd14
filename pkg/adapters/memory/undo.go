package memory

import (
	"github.com/aretw0/canvas/pkg/domain"
)

// Entry is one recorded undoable operation.
type Entry struct {
	Kind  string // "paste" or "delete"
	Nodes []domain.Node
	Edges []domain.Edge
}

// History implements ports.UndoRecorder and ports.DeleteRecorder by keeping
// every recorded operation in order.
type History struct {
	entries []Entry
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// RecordPaste records a paste as one entry.
func (h *History) RecordPaste(nodes []domain.Node, edges []domain.Edge) {
	h.entries = append(h.entries, Entry{Kind: "paste", Nodes: nodes, Edges: edges})
}

// RecordDelete records a delete or cut as one entry.
func (h *History) RecordDelete(nodes []domain.Node, edges []domain.Edge) {
	h.entries = append(h.entries, Entry{Kind: "delete", Nodes: nodes, Edges: edges})
}

// Entries returns the recorded operations, oldest first.
func (h *History) Entries() []Entry {
	return append([]Entry(nil), h.entries...)
}

// Undo reverts the most recent entry against g and returns the result.
// Pastes are removed; deletes are restored. An empty history returns g.
func (h *History) Undo(g domain.Graph) domain.Graph {
	if len(h.entries) == 0 {
		return g
	}
	last := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]

	switch last.Kind {
	case "paste":
		ids := make(map[string]bool, len(last.Nodes))
		for _, n := range last.Nodes {
			ids[n.ID] = true
		}
		out, _, _ := g.RemoveNodes(ids)
		return out
	default:
		return g.Merge(last.Nodes, last.Edges)
	}
}
