package gesture

import (
	"log/slog"
	"time"

	"github.com/aretw0/canvas/internal/logging"
	"github.com/aretw0/canvas/pkg/domain"
)

// Router defaults.
const (
	DefaultMoveThreshold   = 10.0
	DefaultWheelZoomFactor = 0.001
)

// ViewportController is the slice of the viewport the router drives.
type ViewportController interface {
	ScreenToCanvas(s domain.Point) domain.Point
	ZoomAtPoint(zoom float64, screen domain.Point)
	PanBy(dx, dy float64)
	Zoom() float64
}

// DragController is the slice of the drag engine the router drives.
// Positions are in canvas space.
type DragController interface {
	Start(nodeID string, pointer domain.Point) bool
	Handle(pointer domain.Point)
	Stop()
	Active() bool
}

// State is a read-only copy of the router's transient gesture state.
type State struct {
	Mode     domain.GestureMode
	Pointers map[int]domain.Point

	Start       domain.Point
	StartNodeID string

	InitialDistance float64
	InitialZoom     float64

	LastTapTime     time.Time
	LastTapPosition domain.Point
}

// gestureState exists from the first contact until the last one lifts.
type gestureState struct {
	mode     domain.GestureMode
	pointers map[int]domain.Point
	order    []int

	start     domain.Point
	nodeID    string
	draggable bool
	additive  bool

	// last screen position applied to a pan
	panFrom domain.Point

	pinchA, pinchB  int
	initialDistance float64
	initialZoom     float64
}

// Router is the gesture state machine. It is the only writer of the gesture
// state and guarantees that at most one of pan, drag or pinch is active.
type Router struct {
	viewport ViewportController
	drag     DragController

	overlay    map[RegionID]bool
	canvasRoot RegionID
	threshold  float64
	wheelZoom  float64
	taps       *TapDetector
	hooks      domain.Hooks
	logger     *slog.Logger
	now        func() time.Time

	state      *gestureState
	lastCanvas domain.Point
	hasLast    bool
	lastTapAt  time.Time
	lastTapPos domain.Point
}

// Option configures the Router.
type Option func(*Router)

// WithOverlayRegions marks regions whose contacts are never captured.
func WithOverlayRegions(ids ...RegionID) Option {
	return func(r *Router) {
		for _, id := range ids {
			r.overlay[id] = true
		}
	}
}

// WithCanvasRoot sets the region at which the overlay walk stops.
func WithCanvasRoot(id RegionID) Option {
	return func(r *Router) {
		r.canvasRoot = id
	}
}

// WithMoveThreshold sets the distance a pending contact must travel before it
// becomes a pan or drag.
func WithMoveThreshold(px float64) Option {
	return func(r *Router) {
		if px >= 0 {
			r.threshold = px
		}
	}
}

// WithDoubleTap sets the double-tap thresholds.
func WithDoubleTap(interval time.Duration, distance float64) Option {
	return func(r *Router) {
		r.taps = NewTapDetector(interval, distance)
	}
}

// WithWheelZoomFactor sets the zoom change per unit of wheel delta.
func WithWheelZoomFactor(f float64) Option {
	return func(r *Router) {
		if f > 0 {
			r.wheelZoom = f
		}
	}
}

// WithHooks registers gesture callbacks.
func WithHooks(h domain.Hooks) Option {
	return func(r *Router) {
		r.hooks = r.hooks.Merge(h)
	}
}

// WithClock overrides the time source used for pointers without a timestamp.
func WithClock(now func() time.Time) Option {
	return func(r *Router) {
		r.now = now
	}
}

// WithLogger configures a logger for the Router.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// NewRouter creates a router driving the given viewport and drag engine.
func NewRouter(vp ViewportController, drag DragController, opts ...Option) *Router {
	r := &Router{
		viewport:  vp,
		drag:      drag,
		overlay:   make(map[RegionID]bool),
		threshold: DefaultMoveThreshold,
		wheelZoom: DefaultWheelZoomFactor,
		taps:      NewTapDetector(DefaultDoubleTapInterval, DefaultDoubleTapDistance),
		logger:    logging.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Mode returns the current gesture mode.
func (r *Router) Mode() domain.GestureMode {
	if r.state == nil {
		return domain.ModeNone
	}
	return r.state.mode
}

// State returns a copy of the gesture state.
func (r *Router) State() State {
	s := State{
		Mode:            r.Mode(),
		LastTapTime:     r.lastTapAt,
		LastTapPosition: r.lastTapPos,
	}
	if r.state == nil {
		return s
	}
	s.Pointers = make(map[int]domain.Point, len(r.state.pointers))
	for id, p := range r.state.pointers {
		s.Pointers[id] = p
	}
	s.Start = r.state.start
	s.StartNodeID = r.state.nodeID
	s.InitialDistance = r.state.initialDistance
	s.InitialZoom = r.state.initialZoom
	return s
}

// LastCanvasPosition returns the last pointer position seen over the canvas,
// in canvas space.
func (r *Router) LastCanvasPosition() (domain.Point, bool) {
	return r.lastCanvas, r.hasLast
}

// Captures reports whether input with the given hit path belongs to the
// canvas. The path is walked from the innermost region up to, but not
// including, the canvas root.
func (r *Router) Captures(path []RegionID) bool {
	for _, id := range path {
		if r.canvasRoot != "" && id == r.canvasRoot {
			return true
		}
		if r.overlay[id] {
			return false
		}
	}
	return true
}

// Down registers a new contact. It returns false when the contact was left to
// native handling.
func (r *Router) Down(c Contact) bool {
	if !r.Captures(c.Path) {
		return false
	}

	pos := c.Point()
	r.track(pos)

	if r.state == nil {
		r.state = &gestureState{
			mode:      domain.ModeNone,
			pointers:  make(map[int]domain.Point),
			start:     pos,
			nodeID:    c.NodeID,
			draggable: c.Draggable,
			additive:  c.Shift,
		}
	}
	s := r.state
	if _, dup := s.pointers[c.ID]; !dup {
		s.order = append(s.order, c.ID)
	}
	s.pointers[c.ID] = pos

	switch len(s.pointers) {
	case 1:
		r.setMode(domain.ModePending, pos)
	case 2:
		r.teardown()
		r.beginPinch(s.order[0], s.order[1])
	}
	return true
}

// Move updates a contact. Moves of untracked pointers only refresh the last
// known canvas position, and only while the pointer is over the canvas.
func (r *Router) Move(p Pointer) bool {
	pos := p.Point()
	s := r.state
	if s == nil {
		if r.Captures(p.Path) {
			r.track(pos)
		}
		return false
	}
	if _, ok := s.pointers[p.ID]; !ok {
		return false
	}
	s.pointers[p.ID] = pos
	r.track(pos)

	switch s.mode {
	case domain.ModePending:
		if pos.Distance(s.start) <= r.threshold {
			return true
		}
		r.promote(pos)
	case domain.ModePan:
		r.panTo(pos)
	case domain.ModeDrag:
		r.drag.Handle(r.viewport.ScreenToCanvas(pos))
	case domain.ModePinch:
		if p.ID == s.pinchA || p.ID == s.pinchB {
			r.pinch()
		}
	}
	return true
}

// Up releases a contact.
func (r *Router) Up(p Pointer) bool {
	s := r.state
	if s == nil {
		return false
	}
	if _, ok := s.pointers[p.ID]; !ok {
		return false
	}
	pos := p.Point()
	s.pointers[p.ID] = pos
	r.track(pos)
	mode := s.mode

	delete(s.pointers, p.ID)
	s.order = without(s.order, p.ID)
	remaining := len(s.pointers)

	switch {
	case remaining == 0:
		if mode == domain.ModePending {
			r.tap(r.stamp(p))
		}
		r.teardown()
		r.setMode(domain.ModeNone, pos)
		r.state = nil
	case mode == domain.ModePinch && remaining == 1:
		// Continue as a pan with the contact that is still down.
		rest := s.pointers[s.order[0]]
		s.panFrom = rest
		r.setMode(domain.ModePan, rest)
	case mode == domain.ModePinch && (p.ID == s.pinchA || p.ID == s.pinchB):
		r.beginPinch(s.order[0], s.order[1])
	}
	return true
}

// Cancel tears down any active interaction, as on pointercancel or window blur.
func (r *Router) Cancel() {
	if r.state == nil {
		return
	}
	r.teardown()
	r.setMode(domain.ModeNone, r.state.start)
	r.state = nil
}

// Wheel zooms at the pointer when ctrl or meta is held, and pans otherwise.
func (r *Router) Wheel(e WheelEvent) bool {
	if !r.Captures(e.Path) {
		return false
	}
	at := domain.Point{X: e.ClientX, Y: e.ClientY}
	r.track(at)

	if e.Ctrl || e.Meta {
		r.viewport.ZoomAtPoint(r.viewport.Zoom()*(1-e.DeltaY*r.wheelZoom), at)
		return true
	}
	r.viewport.PanBy(e.DeltaX, e.DeltaY)
	return true
}

// promote resolves a pending contact that moved past the threshold.
func (r *Router) promote(pos domain.Point) {
	s := r.state
	if s.draggable && s.nodeID != "" && r.drag != nil &&
		r.drag.Start(s.nodeID, r.viewport.ScreenToCanvas(s.start)) {
		r.setMode(domain.ModeDrag, pos)
		r.drag.Handle(r.viewport.ScreenToCanvas(pos))
		return
	}
	s.panFrom = s.start
	r.setMode(domain.ModePan, pos)
	r.panTo(pos)
}

func (r *Router) panTo(pos domain.Point) {
	s := r.state
	d := pos.Sub(s.panFrom)
	s.panFrom = pos
	if d.X != 0 || d.Y != 0 {
		r.viewport.PanBy(-d.X, -d.Y)
	}
}

func (r *Router) beginPinch(a, b int) {
	s := r.state
	s.pinchA, s.pinchB = a, b
	s.initialDistance = s.pointers[a].Distance(s.pointers[b])
	s.initialZoom = r.viewport.Zoom()
	r.setMode(domain.ModePinch, s.pointers[a].Midpoint(s.pointers[b]))
}

func (r *Router) pinch() {
	s := r.state
	if s.initialDistance == 0 {
		return
	}
	a, b := s.pointers[s.pinchA], s.pointers[s.pinchB]
	zoom := s.initialZoom * (a.Distance(b) / s.initialDistance)
	r.viewport.ZoomAtPoint(zoom, a.Midpoint(b))
}

// teardown stops whatever single-contact interaction is in progress.
func (r *Router) teardown() {
	if r.drag != nil && r.drag.Active() {
		r.drag.Stop()
	}
}

func (r *Router) tap(at time.Time) {
	s := r.state
	ev := &domain.GestureEvent{
		EventBase: domain.EventBase{Timestamp: at, Type: domain.EventTap},
		NodeID:    s.nodeID,
		Position:  r.viewport.ScreenToCanvas(s.start),
		Additive:  s.additive,
	}
	double := r.taps.Tap(at, s.start)
	r.lastTapAt = at
	r.lastTapPos = s.start

	if double {
		ev.Type = domain.EventDoubleTap
		r.logger.Debug("double tap", "node_id", s.nodeID)
		if r.hooks.OnDoubleTap != nil {
			r.hooks.OnDoubleTap(ev)
		}
		return
	}
	if r.hooks.OnTap != nil {
		r.hooks.OnTap(ev)
	}
}

func (r *Router) setMode(to domain.GestureMode, at domain.Point) {
	s := r.state
	from := s.mode
	if from == to {
		return
	}
	s.mode = to
	r.logger.Debug("gesture mode changed", "from", from, "to", to)
	if r.hooks.OnModeChange != nil {
		r.hooks.OnModeChange(&domain.GestureEvent{
			EventBase: domain.EventBase{Timestamp: r.now(), Type: domain.EventModeChange},
			From:      from,
			To:        to,
			Position:  at,
		})
	}
}

func (r *Router) track(screen domain.Point) {
	r.lastCanvas = r.viewport.ScreenToCanvas(screen)
	r.hasLast = true
}

func (r *Router) stamp(p Pointer) time.Time {
	if p.Time.IsZero() {
		return r.now()
	}
	return p.Time
}

func without(ids []int, id int) []int {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
