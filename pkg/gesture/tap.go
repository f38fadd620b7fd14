package gesture

import (
	"time"

	"github.com/aretw0/canvas/pkg/domain"
)

// Double-tap defaults.
const (
	DefaultDoubleTapInterval = 300 * time.Millisecond
	DefaultDoubleTapDistance = 30.0
)

// TapDetector pairs consecutive taps into double-taps. Its memory outlives
// individual gestures.
type TapDetector struct {
	interval time.Duration
	distance float64

	last    time.Time
	lastPos domain.Point
	armed   bool
}

// NewTapDetector creates a detector with the given thresholds.
func NewTapDetector(interval time.Duration, distance float64) *TapDetector {
	return &TapDetector{interval: interval, distance: distance}
}

// Tap registers a tap at screen position pos and reports whether it completes
// a double-tap. A completed double-tap disarms the detector, so a third tap
// starts a new pair.
func (d *TapDetector) Tap(at time.Time, pos domain.Point) bool {
	if d.armed && at.Sub(d.last) <= d.interval && pos.Distance(d.lastPos) <= d.distance {
		d.armed = false
		return true
	}
	d.last = at
	d.lastPos = pos
	d.armed = true
	return false
}

// Reset forgets the previous tap.
func (d *TapDetector) Reset() {
	d.armed = false
}
