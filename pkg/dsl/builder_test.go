package dsl

import (
	"testing"

	"github.com/aretw0/canvas/internal/testutils"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Workflow(t *testing.T) {
	b := New()

	b.Add("fetch").Type("http").Name("Fetch").At(0, 0).Out("out").
		Status(domain.StatusCompleted).
		Edge("e1", "summarize", "")

	b.Frame("post").Name("Post-process").At(260, -40).Size(640, 200)

	b.Add("summarize").Type("llm").Name("Summarize").At(300, 0).In("in").Out("out").
		Within("post").
		Config("model", "small").
		Status(domain.StatusRunning).
		Edge("e2", "notify", "")

	b.Add("notify").Type("email").Name("Notify").At(600, 0).In("in").
		Within("post").
		Status(domain.StatusPending)

	g, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, testutils.Workflow(), g)
}

func TestBuilder_DefaultPortsAndIDs(t *testing.T) {
	b := New()
	b.Add("a").Out("x", "y").Go("b").Go("b").Connect("y", "b", "in2")
	b.Add("b").In("in1", "in2")

	g, err := b.Build()
	require.NoError(t, err)
	require.Len(t, g.Edges, 3)

	assert.Equal(t, domain.Edge{ID: "a-b", SourceNodeID: "a", TargetNodeID: "b", SourcePortID: "x", TargetPortID: "in1"}, g.Edges[0])
	assert.Equal(t, "a-b-1", g.Edges[1].ID)
	assert.Equal(t, "a-b-2", g.Edges[2].ID)
	assert.Equal(t, "y", g.Edges[2].SourcePortID)
	assert.Equal(t, "in2", g.Edges[2].TargetPortID)
}

func TestBuilder_AddIsIdempotent(t *testing.T) {
	b := New()
	b.Add("a").Name("first")
	b.Add("a").Type("llm")

	g := b.MustBuild()
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, "first", g.Nodes[0].Name)
	assert.Equal(t, "llm", g.Nodes[0].Type)
}

func TestBuilder_Errors(t *testing.T) {
	b := New()
	b.Add("a").Go("ghost")
	_, err := b.Build()
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)

	b = New()
	b.Add("a").Within("nowhere")
	_, err = b.Build()
	assert.Error(t, err)
	assert.Panics(t, func() { b.MustBuild() })
}

func TestBuilder_BuildStore(t *testing.T) {
	b := New()
	b.Add("a").At(10, 20)
	store, err := b.BuildStore()
	require.NoError(t, err)
	assert.Equal(t, domain.Point{X: 10, Y: 20}, store.Graph().Nodes[0].Position)
}
