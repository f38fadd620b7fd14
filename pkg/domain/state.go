package domain

// ExecutionStatus is the run state of a node (or an explicit edge override)
// as reported by the external execution pipeline.
type ExecutionStatus string

const (
	StatusNone      ExecutionStatus = ""          // Unset; edges render uncolored
	StatusIdle      ExecutionStatus = "IDLE"      // Never scheduled in the current run
	StatusPending   ExecutionStatus = "PENDING"   // Scheduled, waiting for inputs
	StatusRunning   ExecutionStatus = "RUNNING"   // Executing
	StatusCompleted ExecutionStatus = "COMPLETED" // Finished successfully
	StatusFailed    ExecutionStatus = "FAILED"    // Finished with an error
	StatusSkipped   ExecutionStatus = "SKIPPED"   // Bypassed by a branch decision
)

// Finished reports whether the node reached a terminal outcome.
func (s ExecutionStatus) Finished() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Executed reports whether the node was actually reached by the run. Idle,
// waiting and skipped nodes were not.
func (s ExecutionStatus) Executed() bool {
	switch s {
	case StatusNone, StatusIdle, StatusPending, StatusSkipped:
		return false
	}
	return true
}

// Zoom limits shared by every zoom path (wheel, pinch, toolbar).
const (
	MinZoom = 0.25
	MaxZoom = 2.0
)

// Viewport maps canvas space to screen space: screen = canvas*Zoom + Pan.
type Viewport struct {
	Zoom float64 `json:"zoom"`
	PanX float64 `json:"panX"`
	PanY float64 `json:"panY"`
}

// DefaultViewport is the state restored by a view reset.
var DefaultViewport = Viewport{Zoom: 1, PanX: 0, PanY: 0}

// Selection is an immutable snapshot of the selected node and edge IDs.
// It is transient and never persisted.
type Selection struct {
	NodeIDs []string `json:"nodeIds"`
	EdgeIDs []string `json:"edgeIds"`
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	return len(s.NodeIDs) == 0 && len(s.EdgeIDs) == 0
}
