package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/canvas/pkg/domain"
)

// Store implements ports.DocumentStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.Graph
	mu   sync.RWMutex
}

// NewStore creates a new in-memory document store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.Graph),
	}
}

// Save persists the graph in memory.
func (s *Store) Save(ctx context.Context, canvasID string, graph *domain.Graph) error {
	// Copy to ensure isolation, similar to serialization
	copied := graph.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[canvasID] = copied
	return nil
}

// Load retrieves the graph from memory.
func (s *Store) Load(ctx context.Context, canvasID string) (*domain.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	graph, ok := s.data[canvasID]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}

	// Copy on read so the caller can't mutate store state through shared slices
	ret := graph.Clone()
	return &ret, nil
}

// Delete removes the graph.
func (s *Store) Delete(ctx context.Context, canvasID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, canvasID)
	return nil
}

// List returns stored canvas IDs in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
