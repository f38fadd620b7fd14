package observability

import (
	"log/slog"

	"github.com/aretw0/canvas/pkg/domain"
)

// LoggingHooks logs every interaction event. Gesture transitions and taps are
// logged at debug level, completed edits at info.
func LoggingHooks(logger *slog.Logger) domain.Hooks {
	gesture := func(e *domain.GestureEvent) {
		logger.Debug(string(e.Type),
			"from", e.From,
			"to", e.To,
			"node_id", e.NodeID,
			"x", e.Position.X,
			"y", e.Position.Y,
		)
	}
	moved := func(e *domain.DragEvent) {
		logger.Info(string(e.Type), "node_ids", e.NodeIDs)
	}
	clip := func(e *domain.ClipboardEvent) {
		logger.Info(string(e.Type),
			"nodes", e.NodeCount,
			"edges", e.EdgeCount,
			"fallback", e.Fallback,
		)
	}
	return domain.Hooks{
		OnModeChange: gesture,
		OnTap:        gesture,
		OnDoubleTap:  gesture,
		OnDragEnd:    moved,
		OnResizeEnd:  moved,
		OnCopy:       clip,
		OnCut:        clip,
		OnPaste:      clip,
	}
}
