package memory

import (
	"time"

	"github.com/aretw0/canvas/pkg/ports"
)

// FrameQueue implements ports.FrameScheduler for hosts that drive their own
// render loop (and for tests). Callbacks requested during a Tick run on the
// following Tick, mirroring requestAnimationFrame.
type FrameQueue struct {
	pending []*frame
}

type frame struct {
	fn       func(time.Time)
	canceled bool
}

// NewFrameQueue creates an empty queue.
func NewFrameQueue() *FrameQueue {
	return &FrameQueue{}
}

// RequestFrame queues fn for the next Tick.
func (q *FrameQueue) RequestFrame(fn func(now time.Time)) ports.CancelFunc {
	f := &frame{fn: fn}
	q.pending = append(q.pending, f)
	return func() { f.canceled = true }
}

// Tick runs every callback queued before the call.
func (q *FrameQueue) Tick(now time.Time) {
	batch := q.pending
	q.pending = nil
	for _, f := range batch {
		if !f.canceled {
			f.fn(now)
		}
	}
}

// Len returns how many live callbacks are waiting.
func (q *FrameQueue) Len() int {
	n := 0
	for _, f := range q.pending {
		if !f.canceled {
			n++
		}
	}
	return n
}
