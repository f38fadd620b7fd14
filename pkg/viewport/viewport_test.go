package viewport_test

import (
	"testing"
	"time"

	"github.com/aretw0/canvas/pkg/adapters/memory"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/viewport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestZoomAtPoint_KeepsAnchorFixed(t *testing.T) {
	tests := []struct {
		name   string
		zoom   float64
		anchor domain.Point
	}{
		{"zoom in at origin", 1.5, domain.Point{X: 0, Y: 0}},
		{"zoom in off center", 1.8, domain.Point{X: 420, Y: 133}},
		{"zoom out", 0.4, domain.Point{X: 800, Y: 600}},
		{"clamped request", 9, domain.Point{X: 37, Y: 512}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := viewport.New()
			m.PanBy(-120, 45)

			before := m.ScreenToCanvas(tt.anchor)
			m.ZoomAtPoint(tt.zoom, tt.anchor)
			after := m.CanvasToScreen(before)

			assert.InDelta(t, tt.anchor.X, after.X, eps)
			assert.InDelta(t, tt.anchor.Y, after.Y, eps)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	m := viewport.New()
	m.ZoomAtPoint(0.7, domain.Point{X: 55, Y: 90})
	m.PanBy(13.5, -200)

	for _, p := range []domain.Point{{X: 0, Y: 0}, {X: -300, Y: 71.25}, {X: 1e4, Y: -1e4}} {
		got := m.ScreenToCanvas(m.CanvasToScreen(p))
		assert.InDelta(t, p.X, got.X, 1e-6)
		assert.InDelta(t, p.Y, got.Y, 1e-6)
	}
}

func TestZoomIsClamped(t *testing.T) {
	m := viewport.New()

	m.ZoomAtPoint(5.0, domain.Point{})
	assert.Equal(t, 2.0, m.Zoom())

	m.ZoomAtPoint(0.01, domain.Point{})
	assert.Equal(t, 0.25, m.Zoom())

	m.SetZoomCentered(3)
	assert.Equal(t, 2.0, m.Zoom())

	for i := 0; i < 20; i++ {
		m.ZoomOut()
	}
	assert.Equal(t, 0.25, m.Zoom())
}

func TestPanBy_NaturalDirection(t *testing.T) {
	m := viewport.New()
	m.PanBy(10, -5)

	assert.Equal(t, domain.Viewport{Zoom: 1, PanX: -10, PanY: 5}, m.Snapshot())
}

func TestSetZoomCentered(t *testing.T) {
	m := viewport.New(viewport.WithSize(800, 600))
	center := m.ScreenToCanvas(domain.Point{X: 400, Y: 300})

	m.ZoomIn()
	assert.InDelta(t, 1.2, m.Zoom(), eps)

	got := m.CanvasToScreen(center)
	assert.InDelta(t, 400, got.X, eps)
	assert.InDelta(t, 300, got.Y, eps)
}

func TestReset(t *testing.T) {
	m := viewport.New()
	m.ZoomAtPoint(1.7, domain.Point{X: 10, Y: 10})
	m.PanBy(99, 99)

	m.Reset()
	assert.Equal(t, domain.DefaultViewport, m.Snapshot())
}

func TestFitBounds(t *testing.T) {
	m := viewport.New(viewport.WithSize(1000, 500))

	m.FitBounds(domain.Rect{X: 100, Y: 100, Width: 400, Height: 400}, 50)
	assert.InDelta(t, 1.0, m.Zoom(), eps)

	c := m.CanvasToScreen(domain.Point{X: 300, Y: 300})
	assert.InDelta(t, 500, c.X, eps)
	assert.InDelta(t, 250, c.Y, eps)

	m.FitBounds(domain.Rect{Width: 1e5, Height: 1e5}, 0)
	assert.Equal(t, 0.25, m.Zoom())
}

func TestAnimateTo(t *testing.T) {
	frames := memory.NewFrameQueue()
	m := viewport.New(viewport.WithSize(800, 600), viewport.WithFrameScheduler(frames))
	start := time.Unix(100, 0)

	m.AnimateTo(domain.Point{X: 1000, Y: 0}, 100*time.Millisecond)
	require.True(t, m.Animating())

	frames.Tick(start)
	assert.Equal(t, 0.0, m.Snapshot().PanX, "first frame samples t=0")

	frames.Tick(start.Add(50 * time.Millisecond))
	// target panX = 400 - 1000 = -600; eased at t=0.5 → 0.875
	assert.InDelta(t, -600*0.875, m.Snapshot().PanX, 1e-6)

	frames.Tick(start.Add(100 * time.Millisecond))
	assert.InDelta(t, -600, m.Snapshot().PanX, 1e-6)
	assert.InDelta(t, 300, m.Snapshot().PanY, 1e-6)
	assert.False(t, m.Animating())
	assert.Equal(t, 0, frames.Len())
}

func TestAnimateTo_NewRequestCancelsPrevious(t *testing.T) {
	frames := memory.NewFrameQueue()
	m := viewport.New(viewport.WithSize(200, 200), viewport.WithFrameScheduler(frames))
	now := time.Unix(0, 0)

	m.AnimateTo(domain.Point{X: 5000, Y: 5000}, time.Second)
	m.AnimateTo(domain.Point{X: 100, Y: 100}, 10*time.Millisecond)
	assert.Equal(t, 1, frames.Len(), "first animation's frame was canceled")

	frames.Tick(now)
	frames.Tick(now.Add(20 * time.Millisecond))
	assert.Equal(t, domain.Viewport{Zoom: 1, PanX: 0, PanY: 0}, m.Snapshot())
}

func TestAnimateTo_UserInputCancels(t *testing.T) {
	frames := memory.NewFrameQueue()
	m := viewport.New(viewport.WithSize(200, 200), viewport.WithFrameScheduler(frames))

	m.AnimateTo(domain.Point{X: 900, Y: 900}, time.Second)
	m.PanBy(5, 5)
	assert.False(t, m.Animating())

	frames.Tick(time.Unix(0, 0))
	assert.Equal(t, domain.Viewport{Zoom: 1, PanX: -5, PanY: -5}, m.Snapshot())
}

func TestAnimateTo_JumpsWithoutScheduler(t *testing.T) {
	m := viewport.New(viewport.WithSize(100, 100))
	m.AnimateTo(domain.Point{X: 50, Y: 50}, time.Second)

	assert.False(t, m.Animating())
	assert.Equal(t, domain.Viewport{Zoom: 1}, m.Snapshot())
}

func TestZoomStep_WithAnimation(t *testing.T) {
	frames := memory.NewFrameQueue()
	m := viewport.New(
		viewport.WithSize(200, 200),
		viewport.WithZoomStep(1.5),
		viewport.WithFrameScheduler(frames),
	)

	m.ZoomIn()
	assert.InDelta(t, 1.5, m.Zoom(), eps)

	m.AnimateTo(domain.Point{X: 100, Y: 100}, 10*time.Millisecond)
	frames.Tick(time.Unix(0, 0))
	frames.Tick(time.Unix(0, 0).Add(10 * time.Millisecond))
	assert.False(t, m.Animating())
	assert.InDelta(t, 1.5, m.Zoom(), eps, "animation keeps the zoom")
	assert.InDelta(t, -50, m.Snapshot().PanX, eps)

	m.ZoomOut()
	assert.InDelta(t, 1.0, m.Zoom(), eps)
}

func TestEaseOutCubic(t *testing.T) {
	assert.Equal(t, 0.0, viewport.EaseOutCubic(0))
	assert.Equal(t, 1.0, viewport.EaseOutCubic(1))
	assert.InDelta(t, 0.875, viewport.EaseOutCubic(0.5), eps)
}
