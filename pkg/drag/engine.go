// Package drag moves and resizes nodes in canvas space. Intermediate
// positions are written to the graph store on every pointer move; the single
// change notification is sent when the gesture ends.
package drag

import (
	"log/slog"
	"sort"
	"time"

	"github.com/aretw0/canvas/internal/logging"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/frame"
	"github.com/aretw0/canvas/pkg/ports"
)

// Engine implements the drag and resize gestures. It is not safe for
// concurrent use.
type Engine struct {
	store    ports.GraphStore
	notifier ports.Notifier

	grid    Grid
	minSize domain.Size
	hooks   domain.Hooks
	logger  *slog.Logger
	now     func() time.Time

	drag   *dragState
	resize *resizeState
}

type dragState struct {
	leadID string
	offset domain.Point

	// companions keep their position relative to the lead node
	companions map[string]domain.Point
	moved      bool
}

// Option configures the Engine.
type Option func(*Engine)

// WithGrid enables snapping.
func WithGrid(g Grid) Option {
	return func(e *Engine) {
		e.grid = g
	}
}

// WithMinSize sets the resize floor.
func WithMinSize(s domain.Size) Option {
	return func(e *Engine) {
		e.minSize = s
	}
}

// WithHooks registers drag and resize callbacks.
func WithHooks(h domain.Hooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(h)
	}
}

// WithLogger configures a logger for the Engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an engine writing to store. notifier may be nil.
func New(store ports.GraphStore, notifier ports.Notifier, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		notifier: notifier,
		minSize:  DefaultMinSize,
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Grid returns the snapping policy.
func (e *Engine) Grid() Grid {
	return e.grid
}

// Start begins dragging nodeID from the canvas position pointer. Members of
// a frame move with it. It returns false when the node does not exist or a
// gesture is already in progress.
func (e *Engine) Start(nodeID string, pointer domain.Point) bool {
	return e.StartGroup(nodeID, pointer)
}

// StartGroup is Start with additional nodes that keep their offset to the
// lead node, typically the rest of the selection.
func (e *Engine) StartGroup(nodeID string, pointer domain.Point, others ...string) bool {
	if e.Active() {
		return false
	}
	g := e.store.Graph()
	lead, ok := g.Node(nodeID)
	if !ok {
		return false
	}

	ids := append([]string(nil), others...)
	if lead.IsFrame() {
		ids = append(ids, frame.Contained(g, nodeID)...)
	}
	for _, id := range others {
		if n, ok := g.Node(id); ok && n.IsFrame() {
			ids = append(ids, frame.Contained(g, id)...)
		}
	}

	companions := make(map[string]domain.Point, len(ids))
	for _, id := range ids {
		if id == nodeID {
			continue
		}
		if n, ok := g.Node(id); ok {
			companions[id] = n.Position.Sub(lead.Position)
		}
	}

	e.drag = &dragState{
		leadID:     nodeID,
		offset:     pointer.Sub(lead.Position),
		companions: companions,
	}
	e.logger.Debug("drag started", "node_id", nodeID, "companions", len(companions))
	return true
}

// Handle moves the dragged nodes so the lead node sits at pointer minus the
// recorded offset, snapped to the grid.
func (e *Engine) Handle(pointer domain.Point) {
	d := e.drag
	if d == nil {
		return
	}
	g := e.store.Graph()
	lead, ok := g.Node(d.leadID)
	if !ok {
		return
	}

	pos := e.grid.Snap(pointer.Sub(d.offset))
	if pos == lead.Position {
		return
	}
	lead.Position = pos
	updates := []domain.Node{lead}
	for id, rel := range d.companions {
		if n, ok := g.Node(id); ok {
			n.Position = pos.Add(rel)
			updates = append(updates, n)
		}
	}
	e.store.SetGraph(g.WithNodes(updates...))
	d.moved = true
}

// Stop finishes the drag, or a resize in progress, and sends one change
// notification if anything moved.
func (e *Engine) Stop() {
	if e.resize != nil {
		e.StopResize()
	}
	d := e.drag
	if d == nil {
		return
	}
	e.drag = nil
	if !d.moved {
		return
	}
	e.notify()

	ids := make([]string, 0, len(d.companions)+1)
	ids = append(ids, d.leadID)
	for id := range d.companions {
		ids = append(ids, id)
	}
	sort.Strings(ids[1:])
	if e.hooks.OnDragEnd != nil {
		e.hooks.OnDragEnd(&domain.DragEvent{
			EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventDragEnd},
			NodeIDs:   ids,
		})
	}
}

// Active reports whether a drag or resize is in progress.
func (e *Engine) Active() bool {
	return e.drag != nil || e.resize != nil
}

func (e *Engine) notify() {
	if e.notifier != nil {
		e.notifier.NotifyChanged()
	}
}
