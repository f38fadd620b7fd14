package ports

import "github.com/aretw0/canvas/pkg/domain"

// Notifier is told once a mutation is final (end of drag, paste, cut).
// Intermediate frames of a gesture never notify.
type Notifier interface {
	NotifyChanged()
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func()

// NotifyChanged calls f.
func (f NotifierFunc) NotifyChanged() { f() }

// UndoRecorder receives the full set of pasted nodes and edges so the host can
// undo a paste atomically.
type UndoRecorder interface {
	RecordPaste(nodes []domain.Node, edges []domain.Edge)
}

// DeleteRecorder is an optional extension of UndoRecorder for cut/delete.
type DeleteRecorder interface {
	RecordDelete(nodes []domain.Node, edges []domain.Edge)
}
