/*
Package canvas is a headless interaction engine for node-graph editors: the
viewport transform, multi-pointer gesture disambiguation, drag and resize, and
a clipboard that keeps graphs referentially consistent across copy and paste.

It does not paint anything. The host feeds it normalized input events and
repaints from the immutable Frame it returns, so rendering is a pure function
of (Viewport, Graph, Selection).

# Concept

The canvas document lives behind a GraphStore owned by the host. Every
controller reads a Graph snapshot, derives a new one and hands it back to the
store, followed by a single change notification once an interaction ends.
Controllers depend only on the narrow ports they need (GraphStore, Notifier,
Clipboard, UndoRecorder, FrameScheduler), which makes the engine easy to embed
in a browser bridge, a TUI or a server.

# Key Features

  - One gesture router for mouse and touch: pending, pan, drag and pinch are
    mutually exclusive, and a second contact always tears down a drag first.
  - Anchor-preserving zoom clamped to [0.25, 2.0], with cancellable eased pans.
  - Grid snapping shared by dragging and paste placement.
  - Copy, cut and paste with fresh IDs, edge pruning, "(copy N)" naming and a
    transparent fallback to an internal clipboard.
  - Derived edge coloring from execution status and bezier geometry, including
    collapsed frames with aggregated ports.

# Usage

	store := memory.NewGraphStore(graph)
	ed := canvas.New(store,
		canvas.WithClipboard(platformClipboard),
		canvas.WithGrid(drag.Grid{Size: 20, Enabled: true}),
		canvas.WithOverlayRegions("toolbar", "side-panel"),
		canvas.WithCanvasRoot("canvas"),
	)

	// Feed input
	ed.Router().Down(gesture.Contact{Pointer: p, NodeID: hit, Draggable: true})
	ed.Router().Move(p)
	ed.Router().Up(p)

	// Repaint
	frame := ed.Snapshot()
*/
package canvas
