// Package clipboard copies, cuts and pastes parts of a canvas graph.
//
// Copies go to the platform clipboard as JSON and, always, to an internal
// clipboard held by the Engine. Paste prefers the platform clipboard and falls
// back to the internal one whenever the platform is unavailable or holds
// something unrecognizable. None of the operations return errors: they report
// whether anything happened.
package clipboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/aretw0/canvas/internal/logging"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/drag"
	"github.com/aretw0/canvas/pkg/ports"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// DefaultPasteOffset is added to the copy origin when a paste has neither an
// explicit position nor a known pointer position.
var DefaultPasteOffset = domain.Point{X: 40, Y: 40}

// Selection is the slice of the selection model the engine reads and writes.
type Selection interface {
	NodeIDs() []string
	EdgeIDs() []string
	Set(nodeIDs, edgeIDs []string)
}

// Engine implements copy, cut, paste and delete for one canvas.
// It is not safe for concurrent use.
type Engine struct {
	store ports.GraphStore
	sel   Selection

	platform ports.Clipboard
	undo     ports.UndoRecorder
	deletes  ports.DeleteRecorder
	notifier ports.Notifier

	grid    drag.Grid
	offset  domain.Point
	pointer func() (domain.Point, bool)
	newID   func() string
	hooks   domain.Hooks
	logger  *slog.Logger
	now     func() time.Time

	internal *domain.ClipboardDocument
}

// Option configures the Engine.
type Option func(*Engine)

// WithPlatform sets the platform clipboard. Without one only the internal
// clipboard is used.
func WithPlatform(cb ports.Clipboard) Option {
	return func(e *Engine) {
		e.platform = cb
	}
}

// WithUndo records every paste for atomic undo.
func WithUndo(u ports.UndoRecorder) Option {
	return func(e *Engine) {
		e.undo = u
	}
}

// WithDeleteRecorder records every delete and cut.
func WithDeleteRecorder(d ports.DeleteRecorder) Option {
	return func(e *Engine) {
		e.deletes = d
	}
}

// WithNotifier is told about every change to the graph.
func WithNotifier(n ports.Notifier) Option {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithGrid snaps pasted positions, using the same policy as dragging.
func WithGrid(g drag.Grid) Option {
	return func(e *Engine) {
		e.grid = g
	}
}

// WithPasteOffset overrides DefaultPasteOffset.
func WithPasteOffset(p domain.Point) Option {
	return func(e *Engine) {
		e.offset = p
	}
}

// WithPointer supplies the last known pointer position over the canvas, in
// canvas space.
func WithPointer(fn func() (domain.Point, bool)) Option {
	return func(e *Engine) {
		e.pointer = fn
	}
}

// WithIDGenerator overrides the node and edge ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		e.newID = fn
	}
}

// WithHooks registers clipboard callbacks.
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

// New creates an engine over the graph in store and the given selection.
func New(store ports.GraphStore, sel Selection, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		sel:    sel,
		offset: DefaultPasteOffset,
		newID:  uuid.NewString,
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Internal returns a copy of the internal clipboard, or nil before the first copy.
func (e *Engine) Internal() *domain.ClipboardDocument {
	if e.internal == nil {
		return nil
	}
	return cloneDocument(e.internal)
}

// Copy serializes the selected nodes and the edges between them. It returns
// false when no selected node exists.
func (e *Engine) Copy(ctx context.Context) bool {
	doc, fallback, ok := e.copy(ctx)
	if !ok {
		return false
	}
	e.emit(e.hooks.OnCopy, domain.EventCopy, len(doc.Nodes), len(doc.Edges), fallback)
	return true
}

func (e *Engine) copy(ctx context.Context) (*domain.ClipboardDocument, bool, bool) {
	ids := toSet(e.sel.NodeIDs())
	if len(ids) == 0 {
		return nil, false, false
	}

	g := e.store.Graph()
	var nodes []domain.Node
	for _, n := range g.Nodes {
		if ids[n.ID] {
			nodes = append(nodes, n)
		}
	}
	if len(nodes) == 0 {
		return nil, false, false
	}
	var edges []domain.Edge
	for _, ed := range g.Edges {
		// Edges with a single selected endpoint would dangle on paste.
		if ids[ed.SourceNodeID] && ids[ed.TargetNodeID] {
			edges = append(edges, ed)
		}
	}

	doc := cloneDocument(domain.NewClipboardDocument(nodes, edges))
	e.internal = doc

	fallback := !e.writePlatform(ctx, doc)
	e.logger.Debug("copied selection", "nodes", len(doc.Nodes), "edges", len(doc.Edges), "fallback", fallback)
	return doc, fallback, true
}

func (e *Engine) writePlatform(ctx context.Context, doc *domain.ClipboardDocument) bool {
	if e.platform == nil {
		return false
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		e.logger.Warn("clipboard document could not be encoded", "err", err)
		return false
	}
	if err := e.platform.WriteText(ctx, string(raw)); err != nil {
		e.logger.Warn("platform clipboard write failed, using internal clipboard", "err", err)
		return false
	}
	return true
}

// Paste inserts the clipboard contents. at, when non-nil, is the canvas
// position the copy origin moves to; otherwise the last pointer position is
// used, and failing that the copy origin plus the paste offset. It returns
// false when there is nothing to paste.
func (e *Engine) Paste(ctx context.Context, at *domain.Point) bool {
	doc, fallback := e.resolve(ctx)
	if doc == nil || len(doc.Nodes) == 0 {
		return false
	}

	target := doc.CopyOrigin.Add(e.offset)
	if e.pointer != nil {
		if p, ok := e.pointer(); ok {
			target = p
		}
	}
	if at != nil {
		target = *at
	}
	delta := target.Sub(doc.CopyOrigin)

	g := e.store.Graph()
	taken := g.Names()
	used := make(map[string]bool, len(g.Nodes)+len(g.Edges))
	for _, n := range g.Nodes {
		used[n.ID] = true
	}
	for _, ed := range g.Edges {
		used[ed.ID] = true
	}

	remap := make(map[string]string, len(doc.Nodes))
	nodes := make([]domain.Node, 0, len(doc.Nodes))
	for _, src := range doc.Nodes {
		n := src.Clone()
		n.ID = e.freshID(used)
		if src.ID != "" {
			remap[src.ID] = n.ID
		}
		n.Position = e.grid.Snap(n.Position.Add(delta))
		if n.Name != "" {
			n.Name = UniqueName(n.Name, taken)
			taken[n.Name] = true
		}
		if n.Status != domain.StatusNone {
			n.Status = domain.StatusIdle
		}
		nodes = append(nodes, n)
	}
	for i := range nodes {
		if parent, ok := remap[nodes[i].ParentFrameID]; ok {
			nodes[i].ParentFrameID = parent
			continue
		}
		nodes[i].ParentFrameID = ""
	}

	edges := make([]domain.Edge, 0, len(doc.Edges))
	for _, src := range doc.Edges {
		from, okFrom := remap[src.SourceNodeID]
		to, okTo := remap[src.TargetNodeID]
		if !okFrom || !okTo {
			continue
		}
		ed := src
		ed.ID = e.freshID(used)
		ed.SourceNodeID = from
		ed.TargetNodeID = to
		ed.Status = domain.StatusNone
		edges = append(edges, ed)
	}

	e.store.SetGraph(g.Merge(nodes, edges))

	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	e.sel.Set(ids, nil)

	if e.undo != nil {
		e.undo.RecordPaste(nodes, edges)
	}
	e.notify()
	e.logger.Debug("pasted", "nodes", len(nodes), "edges", len(edges), "fallback", fallback)
	e.emit(e.hooks.OnPaste, domain.EventPaste, len(nodes), len(edges), fallback)
	return true
}

// resolve finds the document to paste, reporting whether the internal
// clipboard had to be used.
func (e *Engine) resolve(ctx context.Context) (*domain.ClipboardDocument, bool) {
	if e.platform != nil {
		text, err := e.platform.ReadText(ctx)
		switch {
		case err != nil:
			e.logger.Warn("platform clipboard read failed, using internal clipboard", "err", err)
		case text == "":
		default:
			doc, err := Parse(text)
			if err != nil {
				e.logger.Warn("platform clipboard holds no canvas data, using internal clipboard", "err", err)
				break
			}
			if len(doc.Nodes) > 0 {
				return doc, false
			}
		}
	}
	if e.internal == nil {
		return nil, true
	}
	return cloneDocument(e.internal), true
}

// Cut copies the selection and then deletes it. It returns false when there
// was nothing to copy.
func (e *Engine) Cut(ctx context.Context) bool {
	doc, fallback, ok := e.copy(ctx)
	if !ok {
		return false
	}
	e.DeleteSelected()
	e.emit(e.hooks.OnCut, domain.EventCut, len(doc.Nodes), len(doc.Edges), fallback)
	return true
}

// DeleteSelected removes the selected nodes, every edge touching them and the
// selected edges, then clears the selection. It returns false when nothing
// was removed.
func (e *Engine) DeleteSelected() bool {
	nodeIDs := toSet(e.sel.NodeIDs())
	edgeIDs := toSet(e.sel.EdgeIDs())

	g := e.store.Graph()
	g, nodes, edges := g.RemoveNodes(nodeIDs)
	g, selected := g.RemoveEdges(edgeIDs)
	edges = append(edges, selected...)

	e.sel.Set(nil, nil)
	if len(nodes) == 0 && len(edges) == 0 {
		return false
	}

	e.store.SetGraph(g)
	if e.deletes != nil {
		e.deletes.RecordDelete(nodes, edges)
	}
	e.notify()
	return true
}

func (e *Engine) freshID(used map[string]bool) string {
	id := e.newID()
	for used[id] {
		id = e.newID()
	}
	used[id] = true
	return id
}

func (e *Engine) notify() {
	if e.notifier != nil {
		e.notifier.NotifyChanged()
	}
}

func (e *Engine) emit(fn func(*domain.ClipboardEvent), typ domain.EventType, nodes, edges int, fallback bool) {
	if fn == nil {
		return
	}
	fn(&domain.ClipboardEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: typ},
		NodeCount: nodes,
		EdgeCount: edges,
		Fallback:  fallback,
	})
}

// cloneDocument deep-copies doc so later pastes never alias earlier ones.
func cloneDocument(doc *domain.ClipboardDocument) *domain.ClipboardDocument {
	out := &domain.ClipboardDocument{}
	if err := copier.CopyWithOption(out, doc, copier.Option{DeepCopy: true}); err != nil {
		out = &domain.ClipboardDocument{
			Type:       doc.Type,
			Version:    doc.Version,
			Nodes:      make([]domain.Node, len(doc.Nodes)),
			Edges:      append([]domain.Edge(nil), doc.Edges...),
			CopyOrigin: doc.CopyOrigin,
		}
		for i, n := range doc.Nodes {
			out.Nodes[i] = n.Clone()
		}
	}
	return out
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
