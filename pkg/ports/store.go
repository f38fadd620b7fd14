package ports

import (
	"context"

	"github.com/aretw0/canvas/pkg/domain"
)

// GraphStore is the live document the interaction controllers read and replace.
// Implementations hand out snapshots; callers never mutate a returned Graph.
type GraphStore interface {
	// Graph returns the current snapshot.
	Graph() domain.Graph

	// SetGraph replaces the current snapshot.
	SetGraph(g domain.Graph)
}

// DocumentStore defines the interface for persisting canvas documents.
type DocumentStore interface {
	// Save persists the graph for a given canvas ID.
	Save(ctx context.Context, canvasID string, graph *domain.Graph) error

	// Load retrieves the graph for a given canvas ID.
	// Returns domain.ErrDocumentNotFound if the canvas does not exist.
	Load(ctx context.Context, canvasID string) (*domain.Graph, error)

	// Delete removes the graph for a given canvas ID.
	Delete(ctx context.Context, canvasID string) error

	// List returns the IDs of stored canvases.
	List(ctx context.Context) ([]string, error)
}
