// Package viewport converts between screen and canvas space and owns zoom, pan
// and the eased pan animation of one canvas instance.
package viewport

import (
	"log/slog"
	"math"

	"github.com/aretw0/canvas/internal/logging"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/ports"
)

// DefaultZoomStep is the factor applied by ZoomIn and ZoomOut.
const DefaultZoomStep = 1.2

// Model holds the zoom factor and pan offset of one canvas instance and
// converts between screen space and canvas space.
//
// Model is not safe for concurrent use; it is mutated from the host's
// interaction thread only.
type Model struct {
	zoom float64
	panX float64
	panY float64

	width  float64
	height float64

	minZoom float64
	maxZoom float64
	step    float64

	scheduler ports.FrameScheduler
	anim      *animation
	logger    *slog.Logger
}

// Option configures the Model.
type Option func(*Model)

// WithSize sets the on-screen size of the viewport, used to find its center.
func WithSize(width, height float64) Option {
	return func(m *Model) {
		m.width = width
		m.height = height
	}
}

// WithZoomLimits overrides the default [0.25, 2.0] zoom range.
func WithZoomLimits(min, max float64) Option {
	return func(m *Model) {
		if min > 0 && max >= min {
			m.minZoom = min
			m.maxZoom = max
		}
	}
}

// WithZoomStep sets the factor used by ZoomIn and ZoomOut.
func WithZoomStep(step float64) Option {
	return func(m *Model) {
		if step > 1 {
			m.step = step
		}
	}
}

// WithFrameScheduler enables animated panning.
func WithFrameScheduler(s ports.FrameScheduler) Option {
	return func(m *Model) {
		m.scheduler = s
	}
}

// WithLogger configures a logger for the Model.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// New creates a viewport at the default state {1, 0, 0}.
func New(opts ...Option) *Model {
	m := &Model{
		zoom:    domain.DefaultViewport.Zoom,
		minZoom: domain.MinZoom,
		maxZoom: domain.MaxZoom,
		step:    DefaultZoomStep,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Snapshot returns the current viewport state.
func (m *Model) Snapshot() domain.Viewport {
	return domain.Viewport{Zoom: m.zoom, PanX: m.panX, PanY: m.panY}
}

// Zoom returns the current zoom factor.
func (m *Model) Zoom() float64 {
	return m.zoom
}

// SetSize updates the on-screen size of the viewport.
func (m *Model) SetSize(width, height float64) {
	m.width = width
	m.height = height
}

// Center returns the screen-space center of the viewport.
func (m *Model) Center() domain.Point {
	return domain.Point{X: m.width / 2, Y: m.height / 2}
}

// ScreenToCanvas converts a screen coordinate to canvas space.
func (m *Model) ScreenToCanvas(s domain.Point) domain.Point {
	return domain.Point{
		X: (s.X - m.panX) / m.zoom,
		Y: (s.Y - m.panY) / m.zoom,
	}
}

// CanvasToScreen converts a canvas coordinate to screen space.
func (m *Model) CanvasToScreen(c domain.Point) domain.Point {
	return domain.Point{
		X: c.X*m.zoom + m.panX,
		Y: c.Y*m.zoom + m.panY,
	}
}

// Clamp limits z to the configured zoom range. NaN maps to the current zoom.
func (m *Model) Clamp(z float64) float64 {
	if math.IsNaN(z) {
		return m.zoom
	}
	return math.Max(m.minZoom, math.Min(m.maxZoom, z))
}

// ZoomAtPoint sets the zoom, keeping the canvas point under the given screen
// coordinate fixed on screen.
func (m *Model) ZoomAtPoint(newZoom float64, screen domain.Point) {
	m.Cancel()
	m.zoomAt(m.Clamp(newZoom), screen)
}

func (m *Model) zoomAt(z float64, screen domain.Point) {
	anchor := m.ScreenToCanvas(screen)
	m.zoom = z
	m.panX = screen.X - anchor.X*z
	m.panY = screen.Y - anchor.Y*z
}

// PanBy scrolls the view by a wheel delta (natural scroll direction).
func (m *Model) PanBy(dx, dy float64) {
	m.Cancel()
	m.panX -= dx
	m.panY -= dy
}

// SetZoomCentered zooms anchored at the viewport center.
func (m *Model) SetZoomCentered(z float64) {
	m.ZoomAtPoint(z, m.Center())
}

// ZoomIn zooms in by one step around the viewport center.
func (m *Model) ZoomIn() {
	m.SetZoomCentered(m.zoom * m.step)
}

// ZoomOut zooms out by one step around the viewport center.
func (m *Model) ZoomOut() {
	m.SetZoomCentered(m.zoom / m.step)
}

// Reset restores {1, 0, 0}.
func (m *Model) Reset() {
	m.Cancel()
	m.zoom = m.Clamp(domain.DefaultViewport.Zoom)
	m.panX = domain.DefaultViewport.PanX
	m.panY = domain.DefaultViewport.PanY
}

// FitBounds zooms and pans so that rect (canvas space) fills the viewport
// minus padding, centered. The zoom stays clamped.
func (m *Model) FitBounds(rect domain.Rect, padding float64) {
	m.Cancel()
	if m.width <= 0 || m.height <= 0 {
		return
	}
	w := math.Max(rect.Width, 1)
	h := math.Max(rect.Height, 1)
	z := math.Min((m.width-2*padding)/w, (m.height-2*padding)/h)
	if z <= 0 {
		z = domain.DefaultViewport.Zoom
	}
	m.zoom = m.Clamp(z)
	m.centerOn(rect.Center())
}

// centerOn pans so that the canvas point c sits at the viewport center.
func (m *Model) centerOn(c domain.Point) {
	target := m.panFor(c)
	m.panX = target.X
	m.panY = target.Y
}

func (m *Model) panFor(c domain.Point) domain.Point {
	center := m.Center()
	return domain.Point{
		X: center.X - c.X*m.zoom,
		Y: center.Y - c.Y*m.zoom,
	}
}
