package gesture

import (
	"time"

	"github.com/aretw0/canvas/pkg/domain"
)

// Kind identifies the input family a Pointer was normalized from.
type Kind string

const (
	KindMouse Kind = "mouse"
	KindTouch Kind = "touch"
)

// MousePointerID is the pointer ID given to mouse input. Touch identifiers
// are non-negative.
const MousePointerID = -1

// RegionID names a hit-test region. The host decides what a region is (a
// toolbar, a side panel, a context menu); the router only compares IDs.
type RegionID string

// Pointer is the minimal, input-family-agnostic view of one contact point.
type Pointer struct {
	ID      int
	ClientX float64
	ClientY float64
	Button  int
	Kind    Kind

	// Time is when the event fired. The router's clock is used when zero.
	Time time.Time

	// Path is the hit-test chain from the innermost region outwards. Empty
	// means the canvas itself.
	Path []RegionID
}

// Point returns the screen position of the pointer.
func (p Pointer) Point() domain.Point {
	return domain.Point{X: p.ClientX, Y: p.ClientY}
}

// Contact is a new contact point together with what it hit.
type Contact struct {
	Pointer

	// NodeID is the node under the contact, empty on the background.
	NodeID string

	// Draggable reports whether the node under the contact may be dragged.
	Draggable bool

	// Shift marks an additive selection modifier.
	Shift bool
}

// MouseEvent is a mouse event as delivered by the host.
type MouseEvent struct {
	ClientX float64
	ClientY float64
	Button  int
	Shift   bool
	Ctrl    bool
	Meta    bool
	Time    time.Time
	Path    []RegionID
}

// FromMouse normalizes a mouse event.
func FromMouse(e MouseEvent) Pointer {
	return Pointer{
		ID:      MousePointerID,
		ClientX: e.ClientX,
		ClientY: e.ClientY,
		Button:  e.Button,
		Kind:    KindMouse,
		Time:    e.Time,
		Path:    e.Path,
	}
}

// Touch is one entry of a touch list.
type Touch struct {
	Identifier int
	ClientX    float64
	ClientY    float64
}

// TouchEvent carries the touches that changed in one host event.
type TouchEvent struct {
	Changed []Touch
	Time    time.Time
	Path    []RegionID
}

// FromTouches normalizes every changed touch of a touch event.
func FromTouches(e TouchEvent) []Pointer {
	out := make([]Pointer, 0, len(e.Changed))
	for _, t := range e.Changed {
		out = append(out, Pointer{
			ID:      t.Identifier,
			ClientX: t.ClientX,
			ClientY: t.ClientY,
			Kind:    KindTouch,
			Time:    e.Time,
			Path:    e.Path,
		})
	}
	return out
}

// WheelEvent is a wheel or trackpad scroll.
type WheelEvent struct {
	ClientX float64
	ClientY float64
	DeltaX  float64
	DeltaY  float64
	Ctrl    bool
	Meta    bool
	Path    []RegionID
}
