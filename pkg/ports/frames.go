package ports

import "time"

// CancelFunc cancels a pending frame callback. Calling it after the callback
// ran, or more than once, is a no-op.
type CancelFunc func()

// FrameScheduler runs a callback on the next animation frame of the host.
// Callbacks run on the host's interaction thread, one at a time.
type FrameScheduler interface {
	RequestFrame(fn func(now time.Time)) CancelFunc
}
