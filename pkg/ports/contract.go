package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/canvas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunDocumentStoreContract runs a suite of tests to verify that a DocumentStore
// implementation adheres to the defined interface contract.
func RunDocumentStoreContract(t *testing.T, store DocumentStore) {
	ctx := context.Background()
	canvasID := "contract-test-canvas-" + time.Now().Format("20060102150405")

	sample := func() *domain.Graph {
		return &domain.Graph{
			Nodes: []domain.Node{
				{ID: "a", Type: "llm", Name: "A", Position: domain.Point{X: 10, Y: 20},
					Configuration: map[string]any{"model": "small"}},
				{ID: "b", Type: "llm", Name: "B", Position: domain.Point{X: 300, Y: 20}},
			},
			Edges: []domain.Edge{{ID: "ab", SourceNodeID: "a", TargetNodeID: "b"}},
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		graph := sample()

		err := store.Save(ctx, canvasID, graph)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, canvasID)
		require.NoError(t, err, "Load should not return error")
		require.Len(t, loaded.Nodes, 2)
		assert.Equal(t, graph.Nodes[0].Position, loaded.Nodes[0].Position)
		assert.Equal(t, "small", loaded.Nodes[0].Configuration["model"])
		assert.Equal(t, graph.Edges, loaded.Edges)
	})

	t.Run("Load Is Isolated From Caller Mutation", func(t *testing.T) {
		graph := sample()
		require.NoError(t, store.Save(ctx, canvasID, graph))

		graph.Nodes[0].Name = "mutated after save"

		loaded, err := store.Load(ctx, canvasID)
		require.NoError(t, err)
		assert.Equal(t, "A", loaded.Nodes[0].Name)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+canvasID)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, canvasID, sample()))

		err := store.Delete(ctx, canvasID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, canvasID)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound, "Load after Delete should return ErrDocumentNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := canvasID + "-1"
		id2 := canvasID + "-2"
		_ = store.Save(ctx, id1, sample())
		_ = store.Save(ctx, id2, sample())

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}

// RunClipboardContract verifies a Clipboard implementation. The clipboard must
// start empty and be available.
func RunClipboardContract(t *testing.T, cb Clipboard) {
	ctx := context.Background()

	t.Run("Empty Read", func(t *testing.T) {
		text, err := cb.ReadText(ctx)
		if err != nil {
			assert.True(t, errors.Is(err, domain.ErrClipboardEmpty), "unexpected error: %v", err)
			return
		}
		assert.Empty(t, text)
	})

	t.Run("Write Then Read", func(t *testing.T) {
		payload := `{"type":"nuraly-workflow-nodes","version":"1.0","nodes":[],"edges":[],"copyOrigin":{"x":1,"y":2}}`
		require.NoError(t, cb.WriteText(ctx, payload))

		text, err := cb.ReadText(ctx)
		require.NoError(t, err)
		assert.Equal(t, payload, text)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, cb.WriteText(ctx, "first"))
		require.NoError(t, cb.WriteText(ctx, "second"))

		text, err := cb.ReadText(ctx)
		require.NoError(t, err)
		assert.Equal(t, "second", text)
	})
}
