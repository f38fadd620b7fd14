package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/canvas/pkg/domain"
	"github.com/stretchr/testify/require"
)

// Workflow returns a small canvas: Fetch -> Summarize -> Notify, with
// Summarize and Notify grouped in the "post" frame. Fetch has completed and
// Summarize is running.
func Workflow() domain.Graph {
	return domain.Graph{
		Nodes: []domain.Node{
			{
				ID: "fetch", Type: "http", Name: "Fetch",
				Position: domain.Point{X: 0, Y: 0},
				Ports:    domain.Ports{Outputs: []domain.Port{{ID: "out"}}},
				Status:   domain.StatusCompleted,
			},
			{
				ID: "post", Type: domain.NodeTypeFrame, Name: "Post-process",
				Position: domain.Point{X: 260, Y: -40},
				Size:     &domain.Size{Width: 640, Height: 200},
			},
			{
				ID: "summarize", Type: "llm", Name: "Summarize",
				Position:      domain.Point{X: 300, Y: 0},
				ParentFrameID: "post",
				Ports: domain.Ports{
					Inputs:  []domain.Port{{ID: "in"}},
					Outputs: []domain.Port{{ID: "out"}},
				},
				Configuration: map[string]any{"model": "small"},
				Status:        domain.StatusRunning,
			},
			{
				ID: "notify", Type: "email", Name: "Notify",
				Position:      domain.Point{X: 600, Y: 0},
				ParentFrameID: "post",
				Ports:         domain.Ports{Inputs: []domain.Port{{ID: "in"}}},
				Status:        domain.StatusPending,
			},
		},
		Edges: []domain.Edge{
			{ID: "e1", SourceNodeID: "fetch", TargetNodeID: "summarize", SourcePortID: "out", TargetPortID: "in"},
			{ID: "e2", SourceNodeID: "summarize", TargetNodeID: "notify", SourcePortID: "out", TargetPortID: "in"},
		},
	}
}

// WorkflowYAML is Workflow written by hand as YAML.
const WorkflowYAML = `nodes:
  - id: fetch
    type: http
    name: Fetch
    position: {x: 0, y: 0}
    ports:
      outputs: [{id: out}]
    status: COMPLETED
  - id: post
    type: frame
    name: Post-process
    position: {x: 260, y: -40}
    size: {width: 640, height: 200}
    ports: {}
  - id: summarize
    type: llm
    name: Summarize
    position: {x: 300, y: 0}
    parentFrameId: post
    ports:
      inputs: [{id: in}]
      outputs: [{id: out}]
    configuration:
      model: small
    status: RUNNING
  - id: notify
    type: email
    name: Notify
    position: {x: 600, y: 0}
    parentFrameId: post
    ports:
      inputs: [{id: in}]
    status: PENDING
edges:
  - {id: e1, sourceNodeId: fetch, targetNodeId: summarize, sourcePortId: out, targetPortId: in}
  - {id: e2, sourceNodeId: summarize, targetNodeId: notify, sourcePortId: out, targetPortId: in}
`

// WriteFile writes content to dir/name and returns the path.
// It fails the test immediately on error.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "Failed to write %s", name)
	return path
}
