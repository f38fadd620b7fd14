package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/canvas/pkg/adapters/memory"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunDocumentStoreContract(t, store)
}

func TestMemoryClipboard_Contract(t *testing.T) {
	ports.RunClipboardContract(t, memory.NewClipboard())
}

func TestMemoryClipboard_Unavailable(t *testing.T) {
	cb := memory.NewClipboardWithText("seed")
	cb.SetUnavailable(true)

	_, err := cb.ReadText(context.Background())
	assert.ErrorIs(t, err, domain.ErrClipboardUnavailable)
	assert.ErrorIs(t, cb.WriteText(context.Background(), "x"), domain.ErrClipboardUnavailable)

	cb.SetUnavailable(false)
	text, err := cb.ReadText(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "seed", text)
}

func TestGraphStore_NotifiesListeners(t *testing.T) {
	s := memory.NewGraphStore(domain.Graph{})
	var seen []int
	s.OnChange(func(g domain.Graph) { seen = append(seen, len(g.Nodes)) })

	s.SetGraph(domain.Graph{Nodes: []domain.Node{{ID: "a"}}})
	assert.Equal(t, 0, s.Changes(), "SetGraph alone must not notify")

	s.NotifyChanged()
	assert.Equal(t, 1, s.Changes())
	assert.Equal(t, []int{1}, seen)
}

func TestHistory_Undo(t *testing.T) {
	base := domain.Graph{
		Nodes: []domain.Node{{ID: "a"}, {ID: "b"}},
		Edges: []domain.Edge{{ID: "ab", SourceNodeID: "a", TargetNodeID: "b"}},
	}
	h := memory.NewHistory()

	t.Run("Paste", func(t *testing.T) {
		pasted := []domain.Node{{ID: "c"}}
		g := base.Merge(pasted, nil)
		h.RecordPaste(pasted, nil)

		g = h.Undo(g)
		assert.Len(t, g.Nodes, 2)
		assert.Empty(t, h.Entries())
	})

	t.Run("Delete", func(t *testing.T) {
		g, nodes, edges := base.RemoveNodes(map[string]bool{"b": true})
		h.RecordDelete(nodes, edges)

		g = h.Undo(g)
		assert.Len(t, g.Nodes, 2)
		assert.Len(t, g.Edges, 1)
	})

	t.Run("Empty", func(t *testing.T) {
		g := h.Undo(base)
		assert.Equal(t, base, g)
	})
}

func TestFrameQueue(t *testing.T) {
	q := memory.NewFrameQueue()
	now := time.Unix(0, 0)

	var calls []string
	q.RequestFrame(func(time.Time) { calls = append(calls, "a") })
	cancel := q.RequestFrame(func(time.Time) { calls = append(calls, "b") })
	q.RequestFrame(func(time.Time) {
		calls = append(calls, "c")
		q.RequestFrame(func(time.Time) { calls = append(calls, "d") })
	})
	cancel()
	assert.Equal(t, 2, q.Len())

	q.Tick(now)
	assert.Equal(t, []string{"a", "c"}, calls, "frames requested during a tick wait for the next one")
	assert.Equal(t, 1, q.Len())

	q.Tick(now)
	assert.Equal(t, []string{"a", "c", "d"}, calls)
}
