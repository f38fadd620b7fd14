package memory

import (
	"github.com/aretw0/canvas/pkg/domain"
)

// GraphStore implements ports.GraphStore and ports.Notifier for a single live
// canvas. It is not safe for concurrent use: like the controllers that drive
// it, it lives on the interaction thread.
type GraphStore struct {
	graph    domain.Graph
	onChange []func(domain.Graph)
	changes  int
}

// NewGraphStore creates a store holding g.
func NewGraphStore(g domain.Graph) *GraphStore {
	return &GraphStore{graph: g}
}

// Graph returns the current snapshot.
func (s *GraphStore) Graph() domain.Graph {
	return s.graph
}

// SetGraph replaces the current snapshot.
func (s *GraphStore) SetGraph(g domain.Graph) {
	s.graph = g
}

// NotifyChanged counts the change and calls the registered listeners.
func (s *GraphStore) NotifyChanged() {
	s.changes++
	for _, fn := range s.onChange {
		fn(s.graph)
	}
}

// OnChange registers a listener called on every NotifyChanged.
func (s *GraphStore) OnChange(fn func(domain.Graph)) {
	s.onChange = append(s.onChange, fn)
}

// Changes returns how many times NotifyChanged was called.
func (s *GraphStore) Changes() int {
	return s.changes
}
