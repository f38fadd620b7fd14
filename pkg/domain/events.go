package domain

import (
	"time"
)

// GestureMode is the router's classification of an in-progress interaction.
type GestureMode string

const (
	ModeNone    GestureMode = "none"
	ModePending GestureMode = "pending"
	ModePan     GestureMode = "pan"
	ModeDrag    GestureMode = "drag"
	ModePinch   GestureMode = "pinch"
)

// EventType defines the category of the event.
type EventType string

const (
	EventModeChange EventType = "mode_change"
	EventTap        EventType = "tap"
	EventDoubleTap  EventType = "double_tap"
	EventDragEnd    EventType = "drag_end"
	EventResizeEnd  EventType = "resize_end"
	EventCopy       EventType = "copy"
	EventCut        EventType = "cut"
	EventPaste      EventType = "paste"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// GestureEvent reports a router transition or a classified tap.
type GestureEvent struct {
	EventBase
	From GestureMode `json:"from,omitempty"`
	To   GestureMode `json:"to,omitempty"`

	// NodeID is the node under the contact for taps, empty on background.
	NodeID   string `json:"node_id,omitempty"`
	Position Point  `json:"position"`
	Additive bool   `json:"additive,omitempty"`
}

// DragEvent reports a finished drag or resize.
type DragEvent struct {
	EventBase
	NodeIDs []string `json:"node_ids"`
}

// ClipboardEvent reports a completed copy, cut or paste.
type ClipboardEvent struct {
	EventBase
	NodeCount int  `json:"node_count"`
	EdgeCount int  `json:"edge_count"`
	Fallback  bool `json:"fallback,omitempty"` // Internal clipboard was used
}

// Hooks defines callbacks for interaction observability.
// Every field is optional.
type Hooks struct {
	OnModeChange func(*GestureEvent)
	OnTap        func(*GestureEvent)
	OnDoubleTap  func(*GestureEvent)
	OnDragEnd    func(*DragEvent)
	OnResizeEnd  func(*DragEvent)
	OnCopy       func(*ClipboardEvent)
	OnCut        func(*ClipboardEvent)
	OnPaste      func(*ClipboardEvent)
}

// Merge returns hooks that call h first and then o for every event.
func (h Hooks) Merge(o Hooks) Hooks {
	return Hooks{
		OnModeChange: chain(h.OnModeChange, o.OnModeChange),
		OnTap:        chain(h.OnTap, o.OnTap),
		OnDoubleTap:  chain(h.OnDoubleTap, o.OnDoubleTap),
		OnDragEnd:    chain(h.OnDragEnd, o.OnDragEnd),
		OnResizeEnd:  chain(h.OnResizeEnd, o.OnResizeEnd),
		OnCopy:       chain(h.OnCopy, o.OnCopy),
		OnCut:        chain(h.OnCut, o.OnCut),
		OnPaste:      chain(h.OnPaste, o.OnPaste),
	}
}

func chain[E any](a, b func(E)) func(E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e E) {
		a(e)
		b(e)
	}
}
