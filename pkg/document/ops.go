package document

import (
	"context"
	"fmt"

	"github.com/aretw0/canvas/pkg/adapters/memory"
	"github.com/aretw0/canvas/pkg/clipboard"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/drag"
	"github.com/aretw0/canvas/pkg/selection"
)

// EditOptions tunes the document edits that mirror canvas interactions.
type EditOptions struct {
	Grid        drag.Grid
	PasteOffset domain.Point
	NewID       func() string
}

// WithEditOptions sets grid snapping, paste offset and ID generation for
// Paste and Move.
func WithEditOptions(o EditOptions) Option {
	return func(m *Manager) {
		m.edit = o
	}
}

func (m *Manager) clipboardEngine(store *memory.GraphStore, sel *selection.Set, platform *memory.Clipboard) *clipboard.Engine {
	opts := []clipboard.Option{
		clipboard.WithPlatform(platform),
		clipboard.WithGrid(m.edit.Grid),
		clipboard.WithHooks(m.hooks),
		clipboard.WithLogger(m.logger),
	}
	if m.edit.PasteOffset != (domain.Point{}) {
		opts = append(opts, clipboard.WithPasteOffset(m.edit.PasteOffset))
	}
	if m.edit.NewID != nil {
		opts = append(opts, clipboard.WithIDGenerator(m.edit.NewID))
	}
	return clipboard.New(store, sel, opts...)
}

// Copy serializes the given nodes of a document, and the edges between them,
// as clipboard text. The text is also written to the shared clipboard when
// one is configured.
func (m *Manager) Copy(ctx context.Context, canvasID string, nodeIDs []string) (string, error) {
	g, err := m.Load(ctx, canvasID)
	if err != nil {
		return "", err
	}

	store := memory.NewGraphStore(*g)
	sel := selection.New()
	sel.Set(nodeIDs, nil)
	local := memory.NewClipboard()
	if !m.clipboardEngine(store, sel, local).Copy(ctx) {
		return "", fmt.Errorf("copy %v: %w", nodeIDs, domain.ErrNodeNotFound)
	}

	text, err := local.ReadText(ctx)
	if err != nil {
		return "", err
	}
	if m.clipboard != nil {
		if err := m.clipboard.WriteText(ctx, text); err != nil {
			m.logger.Warn("shared clipboard write failed", "canvas_id", canvasID, "err", err)
		}
	}
	return text, nil
}

// Paste inserts clipboard text into a document. An empty text reads the
// shared clipboard. at, when non-nil, is where the copy origin lands.
func (m *Manager) Paste(ctx context.Context, canvasID, text string, at *domain.Point) (*domain.GraphDiff, error) {
	if text == "" && m.clipboard != nil {
		var err error
		if text, err = m.clipboard.ReadText(ctx); err != nil {
			return nil, err
		}
	}
	doc, err := clipboard.Parse(text)
	if err != nil {
		return nil, err
	}
	if len(doc.Nodes) == 0 {
		return nil, domain.ErrClipboardEmpty
	}

	return m.Update(ctx, canvasID, func(g *domain.Graph) (bool, error) {
		store := memory.NewGraphStore(*g)
		local := memory.NewClipboardWithText(text)
		if !m.clipboardEngine(store, selection.New(), local).Paste(ctx, at) {
			return false, nil
		}
		*g = store.Graph()
		return true, nil
	})
}

// DeleteNodes removes nodes and the edges touching them.
func (m *Manager) DeleteNodes(ctx context.Context, canvasID string, nodeIDs []string) (*domain.GraphDiff, error) {
	return m.Update(ctx, canvasID, func(g *domain.Graph) (bool, error) {
		store := memory.NewGraphStore(*g)
		sel := selection.New()
		sel.Set(nodeIDs, nil)
		if !m.clipboardEngine(store, sel, memory.NewClipboard()).DeleteSelected() {
			return false, nil
		}
		*g = store.Graph()
		return true, nil
	})
}

// Move places a node at pos, snapped to the grid. Frame members move along.
func (m *Manager) Move(ctx context.Context, canvasID, nodeID string, pos domain.Point) (*domain.GraphDiff, error) {
	return m.Update(ctx, canvasID, func(g *domain.Graph) (bool, error) {
		n, ok := g.Node(nodeID)
		if !ok {
			return false, fmt.Errorf("move %q: %w", nodeID, domain.ErrNodeNotFound)
		}
		store := memory.NewGraphStore(*g)
		eng := drag.New(store, store, drag.WithGrid(m.edit.Grid), drag.WithLogger(m.logger))
		eng.Start(nodeID, n.Position)
		eng.Handle(pos)
		eng.Stop()
		*g = store.Graph()
		return store.Changes() > 0, nil
	})
}

// SetCollapsed collapses or expands a frame node.
func (m *Manager) SetCollapsed(ctx context.Context, canvasID, frameID string, collapsed bool) (*domain.GraphDiff, error) {
	return m.Update(ctx, canvasID, func(g *domain.Graph) (bool, error) {
		n, ok := g.Node(frameID)
		if !ok || !n.IsFrame() {
			return false, fmt.Errorf("collapse %q: %w", frameID, domain.ErrNodeNotFound)
		}
		if n.Collapsed == collapsed {
			return false, nil
		}
		n.Collapsed = collapsed
		*g = g.WithNodes(n)
		return true, nil
	})
}
