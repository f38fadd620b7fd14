package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/canvas/pkg/adapters/redis"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunDocumentStoreContract(t, redis.NewFromClient(client))
}

func TestRedisClipboard_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunClipboardContract(t, redis.NewClipboard(client, redis.DefaultPrefix, "shared", 0))
}

func TestRedisClipboard_Unavailable(t *testing.T) {
	mr, client := newClient(t)
	cb := redis.NewClipboard(client, redis.DefaultPrefix, "shared", 0)
	mr.Close()

	_, err := cb.ReadText(context.Background())
	assert.ErrorIs(t, err, domain.ErrClipboardUnavailable)
	assert.ErrorIs(t, cb.WriteText(context.Background(), "x"), domain.ErrClipboardUnavailable)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	canvasID := "canvas-ttl"
	graph := &domain.Graph{Nodes: []domain.Node{{ID: "n1", Type: "llm"}}}

	require.NoError(t, store.Save(ctx, canvasID, graph))

	ids, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, ids, canvasID)

	// Key expiration in miniredis
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, canvasID)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

	// The index is pruned with wall-clock scores.
	time.Sleep(1200 * time.Millisecond)

	ids, err = store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()
	canvasID := "my-canvas"

	require.NoError(t, store.Save(ctx, canvasID, &domain.Graph{}))

	assert.True(t, mr.Exists("custom:app:my-canvas"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	list, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, list, canvasID)
}

func TestRedisFeed_PublishSubscribe(t *testing.T) {
	_, client := newClient(t)
	feed := redis.NewFeed(client, redis.DefaultPrefix, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *domain.GraphDiff, 1)
	require.NoError(t, feed.Subscribe(ctx, func(d *domain.GraphDiff) { got <- d }))

	feed.Publish(nil)
	feed.Publish(&domain.GraphDiff{CanvasID: "wf", RemovedNodes: []string{"a"}})

	select {
	case d := <-got:
		assert.Equal(t, "wf", d.CanvasID)
		assert.Equal(t, []string{"a"}, d.RemovedNodes)
	case <-time.After(2 * time.Second):
		t.Fatal("change was not delivered")
	}
}
