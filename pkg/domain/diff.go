package domain

import (
	"reflect"
	"sort"
)

// GraphDiff represents the changes between two graph snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type GraphDiff struct {
	// CanvasID is always present to identify the target.
	CanvasID string `json:"canvas_id"`

	// Nodes that were added or changed carry their full new value.
	UpsertedNodes []Node `json:"upserted_nodes,omitempty"`
	// RemovedNodes lists IDs present before but not after.
	RemovedNodes []string `json:"removed_nodes,omitempty"`

	UpsertedEdges []Edge   `json:"upserted_edges,omitempty"`
	RemovedEdges  []string `json:"removed_edges,omitempty"`
}

// Diff calculates the difference between oldGraph and newGraph.
// If oldGraph is nil, it returns a diff representing the entire newGraph (initial load).
// It returns nil when nothing changed.
func Diff(canvasID string, oldGraph, newGraph *Graph) *GraphDiff {
	if newGraph == nil {
		return nil
	}
	if oldGraph == nil {
		oldGraph = &Graph{}
	}

	diff := &GraphDiff{CanvasID: canvasID}

	// 1. Nodes
	oldNodes := make(map[string]Node, len(oldGraph.Nodes))
	for _, n := range oldGraph.Nodes {
		oldNodes[n.ID] = n
	}
	for _, n := range newGraph.Nodes {
		prev, exists := oldNodes[n.ID]
		if !exists || !reflect.DeepEqual(prev, n) {
			diff.UpsertedNodes = append(diff.UpsertedNodes, n)
		}
		delete(oldNodes, n.ID)
	}
	for id := range oldNodes {
		diff.RemovedNodes = append(diff.RemovedNodes, id)
	}

	// 2. Edges
	oldEdges := make(map[string]Edge, len(oldGraph.Edges))
	for _, e := range oldGraph.Edges {
		oldEdges[e.ID] = e
	}
	for _, e := range newGraph.Edges {
		prev, exists := oldEdges[e.ID]
		if !exists || prev != e {
			diff.UpsertedEdges = append(diff.UpsertedEdges, e)
		}
		delete(oldEdges, e.ID)
	}
	for id := range oldEdges {
		diff.RemovedEdges = append(diff.RemovedEdges, id)
	}

	// Map iteration order is random; keep removals stable for clients and tests.
	sort.Strings(diff.RemovedNodes)
	sort.Strings(diff.RemovedEdges)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *GraphDiff) IsEmpty() bool {
	return len(d.UpsertedNodes) == 0 &&
		len(d.RemovedNodes) == 0 &&
		len(d.UpsertedEdges) == 0 &&
		len(d.RemovedEdges) == 0
}
