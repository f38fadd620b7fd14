package drag

import (
	"math"

	"github.com/aretw0/canvas/pkg/domain"
)

// Corner identifies a resize handle.
type Corner string

const (
	SE Corner = "se"
	SW Corner = "sw"
	NE Corner = "ne"
	NW Corner = "nw"
)

// DefaultMinSize is the smallest size a resize can produce.
var DefaultMinSize = domain.Size{Width: 120, Height: 60}

type resizeState struct {
	nodeID string
	corner Corner
	start  domain.Rect
	grab   domain.Point // pointer minus the dragged corner at start
	moved  bool
}

// handle returns the position of corner c on r.
func (c Corner) handle(r domain.Rect) domain.Point {
	p := domain.Point{X: r.X, Y: r.Y}
	if c == SE || c == NE {
		p.X += r.Width
	}
	if c == SE || c == SW {
		p.Y += r.Height
	}
	return p
}

// Valid reports whether c names a known corner.
func (c Corner) Valid() bool {
	switch c {
	case SE, SW, NE, NW:
		return true
	}
	return false
}

// StartResize begins resizing nodeID from the given corner. It returns false
// for unknown nodes or corners, or when a gesture is already in progress.
func (e *Engine) StartResize(nodeID string, corner Corner, pointer domain.Point) bool {
	if e.Active() || !corner.Valid() {
		return false
	}
	n, ok := e.store.Graph().Node(nodeID)
	if !ok {
		return false
	}
	r := n.Bounds()
	e.resize = &resizeState{
		nodeID: nodeID,
		corner: corner,
		start:  r,
		grab:   pointer.Sub(corner.handle(r)),
	}
	return true
}

// HandleResize moves the grabbed corner to pointer. The opposite corner stays
// fixed and the size never drops below the minimum.
func (e *Engine) HandleResize(pointer domain.Point) {
	rs := e.resize
	if rs == nil {
		return
	}
	g := e.store.Graph()
	n, ok := g.Node(rs.nodeID)
	if !ok {
		return
	}

	c := e.grid.Snap(pointer.Sub(rs.grab))
	s := rs.start
	r := s
	switch rs.corner {
	case SE:
		r.Width = math.Max(c.X-s.X, e.minSize.Width)
		r.Height = math.Max(c.Y-s.Y, e.minSize.Height)
	case SW:
		r.Width = math.Max(s.X+s.Width-c.X, e.minSize.Width)
		r.Height = math.Max(c.Y-s.Y, e.minSize.Height)
		r.X = s.X + s.Width - r.Width
	case NE:
		r.Width = math.Max(c.X-s.X, e.minSize.Width)
		r.Height = math.Max(s.Y+s.Height-c.Y, e.minSize.Height)
		r.Y = s.Y + s.Height - r.Height
	case NW:
		r.Width = math.Max(s.X+s.Width-c.X, e.minSize.Width)
		r.Height = math.Max(s.Y+s.Height-c.Y, e.minSize.Height)
		r.X = s.X + s.Width - r.Width
		r.Y = s.Y + s.Height - r.Height
	}

	if r == n.Bounds() {
		return
	}
	n = n.Clone()
	n.Position = domain.Point{X: r.X, Y: r.Y}
	n.Size = &domain.Size{Width: r.Width, Height: r.Height}
	e.store.SetGraph(g.WithNodes(n))
	rs.moved = true
}

// StopResize finishes the resize and sends one change notification if the
// node changed.
func (e *Engine) StopResize() {
	rs := e.resize
	if rs == nil {
		return
	}
	e.resize = nil
	if !rs.moved {
		return
	}
	e.notify()
	if e.hooks.OnResizeEnd != nil {
		e.hooks.OnResizeEnd(&domain.DragEvent{
			EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventResizeEnd},
			NodeIDs:   []string{rs.nodeID},
		})
	}
}

// Resizing reports whether a resize is in progress.
func (e *Engine) Resizing() bool {
	return e.resize != nil
}
