// Package gesture classifies live mouse and touch input into exactly one
// interaction mode at a time (pending, pan, drag or pinch) and dispatches it
// to the viewport and the drag engine.
//
// Mouse and touch events are first normalized into Pointer values so that
// hit-testing and threshold logic is shared by both input families. The
// Router is the sole mutator of the gesture state and is not safe for
// concurrent use.
package gesture
