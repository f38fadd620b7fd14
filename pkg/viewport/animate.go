package viewport

import (
	"math"
	"time"

	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/ports"
)

type animation struct {
	from     domain.Point
	to       domain.Point
	duration time.Duration
	start    time.Time
	cancel   ports.CancelFunc
}

// EaseOutCubic maps linear progress t in [0,1] to 1-(1-t)^3.
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// AnimateTo eases the pan so that the canvas point c ends centered in the
// viewport; zoom is unchanged. It samples once per frame and replaces any
// animation already in flight. Without a frame scheduler, or with a
// non-positive duration, the view jumps immediately.
func (m *Model) AnimateTo(c domain.Point, duration time.Duration) {
	m.Cancel()

	target := m.panFor(c)
	if m.scheduler == nil || duration <= 0 {
		m.panX = target.X
		m.panY = target.Y
		return
	}

	a := &animation{
		from:     domain.Point{X: m.panX, Y: m.panY},
		to:       target,
		duration: duration,
	}
	m.anim = a
	a.cancel = m.scheduler.RequestFrame(func(now time.Time) { m.tick(a, now) })
	m.logger.Debug("viewport animation started", "target_x", c.X, "target_y", c.Y, "duration", duration)
}

func (m *Model) tick(a *animation, now time.Time) {
	// A newer animation (or a cancel) replaced this one after the frame was queued.
	if m.anim != a {
		return
	}
	if a.start.IsZero() {
		a.start = now
	}

	t := float64(now.Sub(a.start)) / float64(a.duration)
	t = math.Max(0, math.Min(1, t))
	e := EaseOutCubic(t)

	m.panX = a.from.X + (a.to.X-a.from.X)*e
	m.panY = a.from.Y + (a.to.Y-a.from.Y)*e

	if t >= 1 {
		m.anim = nil
		return
	}
	a.cancel = m.scheduler.RequestFrame(func(now time.Time) { m.tick(a, now) })
}

// Animating reports whether an animation is in flight.
func (m *Model) Animating() bool {
	return m.anim != nil
}

// Cancel stops the in-flight animation, leaving the pan where it is.
func (m *Model) Cancel() {
	if m.anim == nil {
		return
	}
	if m.anim.cancel != nil {
		m.anim.cancel()
	}
	m.anim = nil
}
