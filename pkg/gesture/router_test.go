package gesture_test

import (
	"testing"
	"time"

	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/gesture"
	"github.com/aretw0/canvas/pkg/viewport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDrag struct {
	active  bool
	node    string
	starts  int
	stops   int
	handled []domain.Point
}

func (d *fakeDrag) Start(nodeID string, p domain.Point) bool {
	d.active = true
	d.node = nodeID
	d.starts++
	return true
}

func (d *fakeDrag) Handle(p domain.Point) {
	if d.active {
		d.handled = append(d.handled, p)
	}
}

func (d *fakeDrag) Stop() {
	d.active = false
	d.stops++
}

func (d *fakeDrag) Active() bool { return d.active }

var t0 = time.Unix(1000, 0)

func touch(id int, x, y float64) gesture.Pointer {
	return gesture.Pointer{ID: id, ClientX: x, ClientY: y, Kind: gesture.KindTouch, Time: t0}
}

func at(p gesture.Pointer, d time.Duration) gesture.Pointer {
	p.Time = t0.Add(d)
	return p
}

func newRouter(opts ...gesture.Option) (*gesture.Router, *viewport.Model, *fakeDrag) {
	vp := viewport.New()
	drag := &fakeDrag{}
	return gesture.NewRouter(vp, drag, opts...), vp, drag
}

func TestRouter_PendingResolvesToPan(t *testing.T) {
	r, vp, drag := newRouter()

	require.True(t, r.Down(gesture.Contact{Pointer: touch(1, 100, 100)}))
	assert.Equal(t, domain.ModePending, r.Mode())

	r.Move(touch(1, 105, 100))
	assert.Equal(t, domain.ModePending, r.Mode(), "within threshold")

	r.Move(touch(1, 130, 120))
	assert.Equal(t, domain.ModePan, r.Mode())
	assert.Equal(t, domain.Viewport{Zoom: 1, PanX: 30, PanY: 20}, vp.Snapshot())

	r.Move(touch(1, 140, 120))
	assert.Equal(t, 40.0, vp.Snapshot().PanX)
	assert.Zero(t, drag.starts)

	r.Up(touch(1, 140, 120))
	assert.Equal(t, domain.ModeNone, r.Mode())
}

func TestRouter_PendingResolvesToDrag(t *testing.T) {
	r, vp, drag := newRouter()

	r.Down(gesture.Contact{Pointer: touch(1, 10, 10), NodeID: "n1", Draggable: true})
	r.Move(touch(1, 50, 10))

	assert.Equal(t, domain.ModeDrag, r.Mode())
	assert.Equal(t, "n1", drag.node)
	assert.Equal(t, []domain.Point{{X: 50, Y: 10}}, drag.handled)
	assert.Equal(t, domain.DefaultViewport, vp.Snapshot(), "drag must not pan")

	r.Up(touch(1, 50, 10))
	assert.Equal(t, 1, drag.stops)
	assert.Equal(t, domain.ModeNone, r.Mode())
}

func TestRouter_NonDraggableNodePans(t *testing.T) {
	r, _, drag := newRouter()

	r.Down(gesture.Contact{Pointer: touch(1, 10, 10), NodeID: "locked"})
	r.Move(touch(1, 50, 10))

	assert.Equal(t, domain.ModePan, r.Mode())
	assert.Zero(t, drag.starts)
}

func TestRouter_SecondTouchStopsDragBeforePinch(t *testing.T) {
	var modes []domain.GestureMode
	r, _, drag := newRouter(gesture.WithHooks(domain.Hooks{
		OnModeChange: func(e *domain.GestureEvent) { modes = append(modes, e.To) },
	}))

	r.Down(gesture.Contact{Pointer: touch(1, 0, 0), NodeID: "n1", Draggable: true})
	r.Move(touch(1, 40, 0))
	require.Equal(t, domain.ModeDrag, r.Mode())

	r.Down(gesture.Contact{Pointer: touch(2, 200, 0)})
	assert.Equal(t, domain.ModePinch, r.Mode())
	assert.False(t, drag.Active(), "drag must be stopped before pinch")
	assert.Equal(t, 1, drag.stops)

	handled := len(drag.handled)
	r.Move(touch(1, 10, 0))
	r.Move(touch(2, 300, 0))
	assert.Len(t, drag.handled, handled, "node must not follow the pointer during pinch")

	assert.Equal(t, []domain.GestureMode{domain.ModePending, domain.ModeDrag, domain.ModePinch}, modes)
}

func TestRouter_PinchZoomsAtMidpoint(t *testing.T) {
	r, vp, _ := newRouter()

	r.Down(gesture.Contact{Pointer: touch(1, 100, 100)})
	r.Down(gesture.Contact{Pointer: touch(2, 200, 100)})
	require.Equal(t, domain.ModePinch, r.Mode())
	assert.Equal(t, 100.0, r.State().InitialDistance)
	assert.Equal(t, 1.0, r.State().InitialZoom)

	r.Move(touch(1, 75, 100))
	assert.InDelta(t, 1.25, vp.Zoom(), 1e-9)

	// The next midpoint is (150, 100); the canvas point under it must stay put.
	anchor := vp.ScreenToCanvas(domain.Point{X: 150, Y: 100})
	r.Move(touch(2, 225, 100))

	assert.InDelta(t, 1.5, vp.Zoom(), 1e-9)
	got := vp.CanvasToScreen(anchor)
	assert.InDelta(t, 150, got.X, 1e-9)
	assert.InDelta(t, 100, got.Y, 1e-9)

	r.Move(touch(2, 5000, 100))
	assert.Equal(t, domain.MaxZoom, vp.Zoom())
}

func TestRouter_PinchDemotesToPan(t *testing.T) {
	r, vp, _ := newRouter()

	r.Down(gesture.Contact{Pointer: touch(1, 100, 100)})
	r.Down(gesture.Contact{Pointer: touch(2, 200, 100)})
	r.Up(touch(2, 200, 100))
	assert.Equal(t, domain.ModePan, r.Mode())

	before := vp.Snapshot()
	r.Move(touch(1, 110, 105))
	after := vp.Snapshot()
	assert.Equal(t, before.PanX+10, after.PanX)
	assert.Equal(t, before.PanY+5, after.PanY)

	r.Up(touch(1, 110, 105))
	assert.Equal(t, domain.ModeNone, r.Mode())
	assert.Nil(t, r.State().Pointers, "state is destroyed with the last contact")
}

func TestRouter_Tap(t *testing.T) {
	var taps []*domain.GestureEvent
	r, _, _ := newRouter(gesture.WithHooks(domain.Hooks{
		OnTap: func(e *domain.GestureEvent) { taps = append(taps, e) },
	}))

	r.Down(gesture.Contact{Pointer: touch(1, 10, 10), NodeID: "n1", Shift: true})
	r.Move(touch(1, 12, 11))
	r.Up(touch(1, 12, 11))

	require.Len(t, taps, 1)
	assert.Equal(t, "n1", taps[0].NodeID)
	assert.True(t, taps[0].Additive)
	assert.Equal(t, domain.EventTap, taps[0].Type)

	r.Down(gesture.Contact{Pointer: touch(1, 10, 10)})
	r.Move(touch(1, 100, 10))
	r.Up(touch(1, 100, 10))
	assert.Len(t, taps, 1, "a promoted gesture is not a tap")
}

func TestRouter_DoubleTap(t *testing.T) {
	tests := []struct {
		name   string
		gap    time.Duration
		offset float64
		double bool
	}{
		{"250ms within 20px", 250 * time.Millisecond, 20, true},
		{"400ms apart", 400 * time.Millisecond, 0, false},
		{"too far apart", 100 * time.Millisecond, 45, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var taps, doubles int
			r, vp, drag := newRouter(gesture.WithHooks(domain.Hooks{
				OnTap:       func(*domain.GestureEvent) { taps++ },
				OnDoubleTap: func(*domain.GestureEvent) { doubles++ },
			}))

			first := touch(1, 100, 100)
			r.Down(gesture.Contact{Pointer: first, NodeID: "n1", Draggable: true})
			r.Up(first)

			second := at(touch(1, 100+tt.offset, 100), tt.gap)
			r.Down(gesture.Contact{Pointer: second, NodeID: "n1", Draggable: true})
			r.Up(second)

			if tt.double {
				assert.Equal(t, 1, doubles)
				assert.Equal(t, 1, taps)
			} else {
				assert.Zero(t, doubles)
				assert.Equal(t, 2, taps)
			}
			assert.Zero(t, drag.starts)
			assert.Equal(t, domain.DefaultViewport, vp.Snapshot())
		})
	}
}

func TestRouter_OverlayRegionsAreIgnored(t *testing.T) {
	r, vp, _ := newRouter(
		gesture.WithOverlayRegions("toolbar", "context-menu"),
		gesture.WithCanvasRoot("canvas"),
	)

	handled := r.Down(gesture.Contact{Pointer: over(touch(1, 10, 10), []gesture.RegionID{"button", "toolbar", "canvas"})})
	assert.False(t, handled)
	assert.Equal(t, domain.ModeNone, r.Mode())

	// Regions above the canvas root do not count.
	handled = r.Down(gesture.Contact{Pointer: over(touch(1, 10, 10), []gesture.RegionID{"node", "canvas", "toolbar"})})
	assert.True(t, handled)

	assert.False(t, r.Wheel(gesture.WheelEvent{DeltaY: 10, Path: []gesture.RegionID{"context-menu"}}))
	assert.Equal(t, 0.0, vp.Snapshot().PanY)
}

func TestRouter_Wheel(t *testing.T) {
	r, vp, _ := newRouter()

	r.Wheel(gesture.WheelEvent{ClientX: 10, ClientY: 10, DeltaX: 4, DeltaY: 6})
	assert.Equal(t, domain.Viewport{Zoom: 1, PanX: -4, PanY: -6}, vp.Snapshot())

	anchor := vp.ScreenToCanvas(domain.Point{X: 300, Y: 200})
	r.Wheel(gesture.WheelEvent{ClientX: 300, ClientY: 200, DeltaY: -100, Ctrl: true})
	assert.InDelta(t, 1.1, vp.Zoom(), 1e-9)
	got := vp.CanvasToScreen(anchor)
	assert.InDelta(t, 300, got.X, 1e-9)
	assert.InDelta(t, 200, got.Y, 1e-9)

	r.Wheel(gesture.WheelEvent{DeltaY: 1e6, Meta: true})
	assert.Equal(t, domain.MinZoom, vp.Zoom())
}

func TestRouter_CancelStopsDrag(t *testing.T) {
	r, _, drag := newRouter()

	r.Down(gesture.Contact{Pointer: touch(1, 0, 0), NodeID: "n1", Draggable: true})
	r.Move(touch(1, 40, 0))
	r.Cancel()

	assert.False(t, drag.Active())
	assert.Equal(t, domain.ModeNone, r.Mode())
	assert.False(t, r.Up(touch(1, 40, 0)), "released pointer is no longer tracked")
}

func TestRouter_LastCanvasPosition(t *testing.T) {
	r, vp, _ := newRouter()
	_, ok := r.LastCanvasPosition()
	assert.False(t, ok)

	vp.ZoomAtPoint(2, domain.Point{})
	r.Move(gesture.FromMouse(gesture.MouseEvent{ClientX: 100, ClientY: 40}))

	p, ok := r.LastCanvasPosition()
	require.True(t, ok)
	assert.Equal(t, domain.Point{X: 50, Y: 20}, p)
}

func TestRouter_LastCanvasPositionIgnoresOverlays(t *testing.T) {
	r, _, _ := newRouter(
		gesture.WithOverlayRegions("toolbar"),
		gesture.WithCanvasRoot("canvas"),
	)

	r.Move(gesture.FromMouse(gesture.MouseEvent{ClientX: 100, ClientY: 40, Path: []gesture.RegionID{"canvas"}}))
	r.Move(gesture.FromMouse(gesture.MouseEvent{ClientX: 5, ClientY: 5, Path: []gesture.RegionID{"zoom-button", "toolbar", "canvas"}}))

	p, ok := r.LastCanvasPosition()
	require.True(t, ok)
	assert.Equal(t, domain.Point{X: 100, Y: 40}, p, "hovering the toolbar keeps the paste target")
}

func over(p gesture.Pointer, path []gesture.RegionID) gesture.Pointer {
	p.Path = path
	return p
}

func TestFromTouches(t *testing.T) {
	ps := gesture.FromTouches(gesture.TouchEvent{
		Changed: []gesture.Touch{{Identifier: 3, ClientX: 1, ClientY: 2}, {Identifier: 7, ClientX: 3, ClientY: 4}},
	})
	require.Len(t, ps, 2)
	assert.Equal(t, 7, ps[1].ID)
	assert.Equal(t, gesture.KindTouch, ps[1].Kind)

	m := gesture.FromMouse(gesture.MouseEvent{ClientX: 5, ClientY: 6, Button: 2})
	assert.Equal(t, gesture.MousePointerID, m.ID)
	assert.Equal(t, domain.Point{X: 5, Y: 6}, m.Point())
}
