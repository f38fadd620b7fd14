package drag_test

import (
	"testing"

	"github.com/aretw0/canvas/pkg/adapters/memory"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/drag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(g domain.Graph, opts ...drag.Option) (*drag.Engine, *memory.GraphStore) {
	store := memory.NewGraphStore(g)
	return drag.New(store, store, opts...), store
}

func position(t *testing.T, s *memory.GraphStore, id string) domain.Point {
	t.Helper()
	n, ok := s.Graph().Node(id)
	require.True(t, ok, "node %s", id)
	return n.Position
}

func TestGrid_Snap(t *testing.T) {
	g := drag.Grid{Size: 20, Enabled: true}

	assert.Equal(t, domain.Point{X: 20, Y: 40}, g.Snap(domain.Point{X: 29, Y: 31}))
	assert.Equal(t, domain.Point{X: -20, Y: 0}, g.Snap(domain.Point{X: -11, Y: 9.9}))

	p := g.Snap(domain.Point{X: 133, Y: -77})
	assert.Equal(t, p, g.Snap(p), "snapping is idempotent")

	off := drag.Grid{Size: 20}
	assert.Equal(t, domain.Point{X: 29, Y: 31}, off.Snap(domain.Point{X: 29, Y: 31}))
}

func TestEngine_DragNotifiesOnce(t *testing.T) {
	var ended []*domain.DragEvent
	e, store := newEngine(domain.Graph{Nodes: []domain.Node{{ID: "a", Position: domain.Point{X: 100, Y: 100}}}},
		drag.WithHooks(domain.Hooks{OnDragEnd: func(ev *domain.DragEvent) { ended = append(ended, ev) }}))

	require.True(t, e.Start("a", domain.Point{X: 110, Y: 120}))
	assert.True(t, e.Active())

	e.Handle(domain.Point{X: 150, Y: 120})
	e.Handle(domain.Point{X: 160, Y: 140})
	assert.Equal(t, domain.Point{X: 150, Y: 120}, position(t, store, "a"))
	assert.Zero(t, store.Changes(), "no notification while dragging")

	e.Stop()
	assert.False(t, e.Active())
	assert.Equal(t, 1, store.Changes())
	require.Len(t, ended, 1)
	assert.Equal(t, []string{"a"}, ended[0].NodeIDs)

	e.Handle(domain.Point{X: 999, Y: 999})
	assert.Equal(t, domain.Point{X: 150, Y: 120}, position(t, store, "a"), "handle after stop is ignored")
}

func TestEngine_StopWithoutMovementIsSilent(t *testing.T) {
	e, store := newEngine(domain.Graph{Nodes: []domain.Node{{ID: "a"}}})
	require.True(t, e.Start("a", domain.Point{X: 5, Y: 5}))
	e.Stop()
	assert.Zero(t, store.Changes())
}

func TestEngine_StartUnknownNode(t *testing.T) {
	e, _ := newEngine(domain.Graph{})
	assert.False(t, e.Start("ghost", domain.Point{}))
	assert.False(t, e.Active())
}

func TestEngine_DragSnapsToGrid(t *testing.T) {
	e, store := newEngine(domain.Graph{Nodes: []domain.Node{{ID: "a"}}},
		drag.WithGrid(drag.Grid{Size: 20, Enabled: true}))

	e.Start("a", domain.Point{X: 0, Y: 0})
	e.Handle(domain.Point{X: 27, Y: 52})
	assert.Equal(t, domain.Point{X: 20, Y: 60}, position(t, store, "a"))
}

func TestEngine_FrameCarriesMembers(t *testing.T) {
	e, store := newEngine(domain.Graph{Nodes: []domain.Node{
		{ID: "F", Type: domain.NodeTypeFrame, Position: domain.Point{X: 0, Y: 0}},
		{ID: "a", ParentFrameID: "F", Position: domain.Point{X: 20, Y: 30}},
		{ID: "z", Position: domain.Point{X: 500, Y: 500}},
	}})

	e.Start("F", domain.Point{X: 5, Y: 5})
	e.Handle(domain.Point{X: 105, Y: 55})
	e.Stop()

	assert.Equal(t, domain.Point{X: 100, Y: 50}, position(t, store, "F"))
	assert.Equal(t, domain.Point{X: 120, Y: 80}, position(t, store, "a"))
	assert.Equal(t, domain.Point{X: 500, Y: 500}, position(t, store, "z"))
}

func TestEngine_StartGroup(t *testing.T) {
	var ended *domain.DragEvent
	e, store := newEngine(domain.Graph{Nodes: []domain.Node{
		{ID: "a", Position: domain.Point{X: 0, Y: 0}},
		{ID: "b", Position: domain.Point{X: 300, Y: 0}},
		{ID: "c", Position: domain.Point{X: 0, Y: 300}},
	}}, drag.WithHooks(domain.Hooks{OnDragEnd: func(ev *domain.DragEvent) { ended = ev }}))

	require.True(t, e.StartGroup("a", domain.Point{}, "c", "missing"))
	assert.False(t, e.Start("b", domain.Point{}), "one gesture at a time")

	e.Handle(domain.Point{X: 10, Y: 10})
	e.Stop()

	assert.Equal(t, domain.Point{X: 10, Y: 310}, position(t, store, "c"))
	assert.Equal(t, domain.Point{X: 300, Y: 0}, position(t, store, "b"))
	require.NotNil(t, ended)
	assert.Equal(t, []string{"a", "c"}, ended.NodeIDs)
}

func TestEngine_Resize(t *testing.T) {
	start := domain.Graph{Nodes: []domain.Node{{
		ID:       "n",
		Position: domain.Point{X: 100, Y: 100},
		Size:     &domain.Size{Width: 200, Height: 100},
	}}}

	tests := []struct {
		name    string
		corner  drag.Corner
		grab    domain.Point
		to      domain.Point
		want    domain.Rect
		changed bool
	}{
		{"se grows", drag.SE, domain.Point{X: 300, Y: 200}, domain.Point{X: 350, Y: 260},
			domain.Rect{X: 100, Y: 100, Width: 250, Height: 160}, true},
		{"nw grows up-left", drag.NW, domain.Point{X: 100, Y: 100}, domain.Point{X: 50, Y: 80},
			domain.Rect{X: 50, Y: 80, Width: 250, Height: 120}, true},
		{"sw floor keeps right edge", drag.SW, domain.Point{X: 100, Y: 200}, domain.Point{X: 290, Y: 200},
			domain.Rect{X: 180, Y: 100, Width: 120, Height: 100}, true},
		{"ne floor keeps bottom edge", drag.NE, domain.Point{X: 300, Y: 100}, domain.Point{X: 300, Y: 190},
			domain.Rect{X: 100, Y: 140, Width: 200, Height: 60}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, store := newEngine(start)
			require.True(t, e.StartResize("n", tt.corner, tt.grab))
			assert.True(t, e.Resizing())

			e.HandleResize(tt.to)
			e.StopResize()

			n, _ := store.Graph().Node("n")
			assert.Equal(t, tt.want, n.Bounds())
			assert.Equal(t, 1, store.Changes())
			assert.Equal(t, 200.0, start.Nodes[0].Size.Width, "original graph untouched")
		})
	}
}

func TestEngine_ResizeRejectsUnknownCorner(t *testing.T) {
	e, _ := newEngine(domain.Graph{Nodes: []domain.Node{{ID: "n"}}})
	assert.False(t, e.StartResize("n", drag.Corner("north"), domain.Point{}))
	assert.False(t, e.StartResize("ghost", drag.SE, domain.Point{}))
}

func TestEngine_StopEndsResize(t *testing.T) {
	var resized int
	e, store := newEngine(domain.Graph{Nodes: []domain.Node{{ID: "n"}}},
		drag.WithHooks(domain.Hooks{OnResizeEnd: func(*domain.DragEvent) { resized++ }}))

	e.StartResize("n", drag.SE, domain.Point{X: 200, Y: 80})
	e.HandleResize(domain.Point{X: 260, Y: 80})
	e.Stop()

	assert.False(t, e.Active())
	assert.Equal(t, 1, resized)
	assert.Equal(t, 1, store.Changes())
}
