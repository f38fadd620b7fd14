package canvas

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/canvas/internal/logging"
	"github.com/aretw0/canvas/pkg/clipboard"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/drag"
	"github.com/aretw0/canvas/pkg/edges"
	"github.com/aretw0/canvas/pkg/frame"
	"github.com/aretw0/canvas/pkg/gesture"
	"github.com/aretw0/canvas/pkg/ports"
	"github.com/aretw0/canvas/pkg/selection"
	"github.com/aretw0/canvas/pkg/viewport"
)

// Editor is the high-level entry point of the library. It wires the viewport,
// gesture router, drag engine, selection and clipboard of one canvas around a
// single GraphStore.
//
// Editor is not safe for concurrent use: all methods are meant to be called
// from the host's event loop.
type Editor struct {
	store    ports.GraphStore
	notifier ports.Notifier

	viewport  *viewport.Model
	selection *selection.Set
	drag      *drag.Engine
	router    *gesture.Router
	clipboard *clipboard.Engine

	hooks  domain.Hooks
	logger *slog.Logger
	cfg    config
}

type config struct {
	platform ports.Clipboard
	undo     ports.UndoRecorder
	deletes  ports.DeleteRecorder
	frames   ports.FrameScheduler

	grid        drag.Grid
	minSize     *domain.Size
	overlay     []gesture.RegionID
	canvasRoot  gesture.RegionID
	viewportOps []viewport.Option
	routerOps   []gesture.Option
	pasteOffset *domain.Point
	newID       func() string
}

// Option defines a functional option for configuring the Editor.
type Option func(*Editor)

// WithLogger sets a structured logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithHooks registers interaction callbacks. They run after the editor's own
// handling of the event.
func WithHooks(h domain.Hooks) Option {
	return func(e *Editor) {
		e.hooks = e.hooks.Merge(h)
	}
}

// WithNotifier overrides the change notifier. By default the store is used
// when it implements ports.Notifier.
func WithNotifier(n ports.Notifier) Option {
	return func(e *Editor) {
		e.notifier = n
	}
}

// WithClipboard sets the platform clipboard.
func WithClipboard(cb ports.Clipboard) Option {
	return func(e *Editor) {
		e.cfg.platform = cb
	}
}

// WithUndoRecorder records pastes for undo.
func WithUndoRecorder(u ports.UndoRecorder) Option {
	return func(e *Editor) {
		e.cfg.undo = u
	}
}

// WithDeleteRecorder records deletes and cuts for undo.
func WithDeleteRecorder(d ports.DeleteRecorder) Option {
	return func(e *Editor) {
		e.cfg.deletes = d
	}
}

// WithFrameScheduler enables animated viewport moves.
func WithFrameScheduler(s ports.FrameScheduler) Option {
	return func(e *Editor) {
		e.cfg.frames = s
	}
}

// WithGrid sets the snapping policy used by both dragging and pasting.
func WithGrid(g drag.Grid) Option {
	return func(e *Editor) {
		e.cfg.grid = g
	}
}

// WithMinNodeSize sets the resize floor.
func WithMinNodeSize(s domain.Size) Option {
	return func(e *Editor) {
		e.cfg.minSize = &s
	}
}

// WithOverlayRegions lists regions (toolbars, panels, menus) whose input is
// never captured by the canvas.
func WithOverlayRegions(ids ...gesture.RegionID) Option {
	return func(e *Editor) {
		e.cfg.overlay = append(e.cfg.overlay, ids...)
	}
}

// WithCanvasRoot names the region that contains the whole canvas.
func WithCanvasRoot(id gesture.RegionID) Option {
	return func(e *Editor) {
		e.cfg.canvasRoot = id
	}
}

// WithViewportSize sets the on-screen size of the canvas.
func WithViewportSize(width, height float64) Option {
	return func(e *Editor) {
		e.cfg.viewportOps = append(e.cfg.viewportOps, viewport.WithSize(width, height))
	}
}

// WithZoomLimits overrides the default zoom range.
func WithZoomLimits(min, max float64) Option {
	return func(e *Editor) {
		e.cfg.viewportOps = append(e.cfg.viewportOps, viewport.WithZoomLimits(min, max))
	}
}

// WithZoomStep sets the toolbar zoom factor.
func WithZoomStep(step float64) Option {
	return func(e *Editor) {
		e.cfg.viewportOps = append(e.cfg.viewportOps, viewport.WithZoomStep(step))
	}
}

// WithMoveThreshold sets how far a contact travels before it becomes a pan or drag.
func WithMoveThreshold(px float64) Option {
	return func(e *Editor) {
		e.cfg.routerOps = append(e.cfg.routerOps, gesture.WithMoveThreshold(px))
	}
}

// WithDoubleTap sets the double-tap thresholds.
func WithDoubleTap(interval time.Duration, distance float64) Option {
	return func(e *Editor) {
		e.cfg.routerOps = append(e.cfg.routerOps, gesture.WithDoubleTap(interval, distance))
	}
}

// WithPasteOffset sets the offset applied to pastes without a position.
func WithPasteOffset(p domain.Point) Option {
	return func(e *Editor) {
		e.cfg.pasteOffset = &p
	}
}

// WithIDGenerator overrides how pasted nodes and edges are named.
func WithIDGenerator(fn func() string) Option {
	return func(e *Editor) {
		e.cfg.newID = fn
	}
}

// New creates an Editor over store.
func New(store ports.GraphStore, opts ...Option) *Editor {
	e := &Editor{
		store:     store,
		selection: selection.New(),
		logger:    logging.NewNop(),
	}
	if n, ok := store.(ports.Notifier); ok {
		e.notifier = n
	}
	for _, opt := range opts {
		opt(e)
	}

	vpOpts := append([]viewport.Option{viewport.WithLogger(e.logger)}, e.cfg.viewportOps...)
	if e.cfg.frames != nil {
		vpOpts = append(vpOpts, viewport.WithFrameScheduler(e.cfg.frames))
	}
	e.viewport = viewport.New(vpOpts...)

	dragOpts := []drag.Option{
		drag.WithGrid(e.cfg.grid),
		drag.WithHooks(e.hooks),
		drag.WithLogger(e.logger),
	}
	if e.cfg.minSize != nil {
		dragOpts = append(dragOpts, drag.WithMinSize(*e.cfg.minSize))
	}
	e.drag = drag.New(store, e.notifier, dragOpts...)

	routerOpts := []gesture.Option{
		gesture.WithOverlayRegions(e.cfg.overlay...),
		gesture.WithCanvasRoot(e.cfg.canvasRoot),
		gesture.WithHooks(domain.Hooks{OnTap: e.handleTap}.Merge(e.hooks)),
		gesture.WithLogger(e.logger),
	}
	routerOpts = append(routerOpts, e.cfg.routerOps...)
	e.router = gesture.NewRouter(e.viewport, &selectionDrag{e}, routerOpts...)

	cbOpts := []clipboard.Option{
		clipboard.WithGrid(e.cfg.grid),
		clipboard.WithPointer(e.router.LastCanvasPosition),
		clipboard.WithHooks(e.hooks),
		clipboard.WithLogger(e.logger),
	}
	if e.cfg.platform != nil {
		cbOpts = append(cbOpts, clipboard.WithPlatform(e.cfg.platform))
	}
	if e.cfg.undo != nil {
		cbOpts = append(cbOpts, clipboard.WithUndo(e.cfg.undo))
	}
	if e.cfg.deletes != nil {
		cbOpts = append(cbOpts, clipboard.WithDeleteRecorder(e.cfg.deletes))
	}
	if e.notifier != nil {
		cbOpts = append(cbOpts, clipboard.WithNotifier(e.notifier))
	}
	if e.cfg.pasteOffset != nil {
		cbOpts = append(cbOpts, clipboard.WithPasteOffset(*e.cfg.pasteOffset))
	}
	if e.cfg.newID != nil {
		cbOpts = append(cbOpts, clipboard.WithIDGenerator(e.cfg.newID))
	}
	e.clipboard = clipboard.New(store, e.selection, cbOpts...)

	return e
}

// Frame is everything a renderer needs to paint the canvas. Rendering is a
// pure function of a Frame.
type Frame struct {
	Viewport  domain.Viewport    `json:"viewport"`
	Graph     domain.Graph       `json:"graph"`
	Selection domain.Selection   `json:"selection"`
	Nodes     []domain.Node      `json:"visibleNodes"`
	Edges     []edges.Rendered   `json:"edges"`
	Collapsed []frame.View       `json:"collapsed,omitempty"`
	Mode      domain.GestureMode `json:"mode"`
}

// Snapshot captures the current state of the canvas.
func (e *Editor) Snapshot() Frame {
	g := e.store.Graph()
	return Frame{
		Viewport:  e.viewport.Snapshot(),
		Graph:     g,
		Selection: e.selection.Snapshot(),
		Nodes:     frame.VisibleNodes(g),
		Edges:     edges.Derive(g),
		Collapsed: frame.Collapsed(g),
		Mode:      e.router.Mode(),
	}
}

// Viewport returns the viewport model.
func (e *Editor) Viewport() *viewport.Model { return e.viewport }

// Router returns the gesture router that input events are fed to.
func (e *Editor) Router() *gesture.Router { return e.router }

// Selection returns the selection model.
func (e *Editor) Selection() *selection.Set { return e.selection }

// Drag returns the drag and resize engine.
func (e *Editor) Drag() *drag.Engine { return e.drag }

// Clipboard returns the clipboard engine.
func (e *Editor) Clipboard() *clipboard.Engine { return e.clipboard }

// Copy copies the selection.
func (e *Editor) Copy(ctx context.Context) bool {
	return e.clipboard.Copy(ctx)
}

// Paste pastes at the given canvas position, or at the pointer when nil.
func (e *Editor) Paste(ctx context.Context, at *domain.Point) bool {
	return e.clipboard.Paste(ctx, at)
}

// Cut copies and then deletes the selection.
func (e *Editor) Cut(ctx context.Context) bool {
	return e.clipboard.Cut(ctx)
}

// Delete removes the selection and every edge left dangling.
func (e *Editor) Delete() bool {
	return e.clipboard.DeleteSelected()
}

// ToggleCollapse collapses or expands a frame. It returns false if frameID is
// not a frame.
func (e *Editor) ToggleCollapse(frameID string) bool {
	g := e.store.Graph()
	n, ok := g.Node(frameID)
	if !ok || !n.IsFrame() {
		return false
	}
	n.Collapsed = !n.Collapsed
	e.store.SetGraph(g.WithNodes(n))
	e.notify()
	return true
}

// FitToContent zooms and pans so every visible node is on screen.
func (e *Editor) FitToContent(padding float64) {
	nodes := frame.VisibleNodes(e.store.Graph())
	if len(nodes) == 0 {
		e.viewport.Reset()
		return
	}
	box := nodes[0].Bounds()
	for _, n := range nodes[1:] {
		box = box.Union(n.Bounds())
	}
	e.viewport.FitBounds(box, padding)
}

// FocusNode animates the viewport so the node is centered.
func (e *Editor) FocusNode(nodeID string, duration time.Duration) bool {
	n, ok := e.store.Graph().Node(nodeID)
	if !ok {
		return false
	}
	e.viewport.AnimateTo(n.Bounds().Center(), duration)
	return true
}

// handleTap applies tap semantics to the selection: a node tap selects the
// node, a background tap clears the selection unless additive.
func (e *Editor) handleTap(ev *domain.GestureEvent) {
	switch {
	case ev.NodeID != "" && ev.Additive:
		e.selection.Toggle(ev.NodeID)
	case ev.NodeID != "":
		e.selection.SelectNode(ev.NodeID, false)
	case !ev.Additive:
		e.selection.Clear()
	}
}

func (e *Editor) notify() {
	if e.notifier != nil {
		e.notifier.NotifyChanged()
	}
}

// selectionDrag drags the whole selection when the grabbed node is part of
// it, and selects the grabbed node otherwise.
type selectionDrag struct {
	e *Editor
}

func (d *selectionDrag) Start(nodeID string, pointer domain.Point) bool {
	sel := d.e.selection
	if !sel.HasNode(nodeID) {
		sel.SelectNode(nodeID, false)
	}
	var others []string
	for _, id := range sel.NodeIDs() {
		if id != nodeID {
			others = append(others, id)
		}
	}
	return d.e.drag.StartGroup(nodeID, pointer, others...)
}

func (d *selectionDrag) Handle(pointer domain.Point) { d.e.drag.Handle(pointer) }
func (d *selectionDrag) Stop()                       { d.e.drag.Stop() }
func (d *selectionDrag) Active() bool                { return d.e.drag.Active() }
