// Package edges derives what a renderer needs to paint edges: the execution
// coloring and the bezier geometry. Everything here is a pure function of the
// graph.
package edges

import "github.com/aretw0/canvas/pkg/domain"

// DeriveStatus returns the status an edge is colored with, or StatusNone for
// an uncolored edge.
//
// An explicit edge status always wins. Otherwise a finished source colors the
// edge only if the target actually executed, so that only the branch taken by
// a conditional fan-out lights up. A running source pre-colors edges whose
// target is already pending or running.
func DeriveStatus(edge domain.Edge, source, target *domain.Node) domain.ExecutionStatus {
	if edge.Status != domain.StatusNone {
		return edge.Status
	}
	if source == nil || target == nil {
		return domain.StatusNone
	}

	switch {
	case source.Status.Finished():
		if target.Status.Executed() {
			return source.Status
		}
	case source.Status == domain.StatusRunning:
		if target.Status == domain.StatusPending || target.Status == domain.StatusRunning {
			return domain.StatusRunning
		}
	}
	return domain.StatusNone
}
