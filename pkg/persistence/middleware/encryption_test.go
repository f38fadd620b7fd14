package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/aretw0/canvas/internal/testutils"
	"github.com/aretw0/canvas/pkg/adapters/memory"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/persistence/middleware"
	"github.com/aretw0/canvas/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunDocumentStoreContract(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	ctx := context.Background()

	g := testutils.Workflow()
	g.Nodes[2].Configuration["api_key"] = "my-secret-sauce"
	require.NoError(t, secure.Save(ctx, "wf", &g))

	// The underlying store only sees the envelope; layout stays readable.
	stored, err := underlying.Load(ctx, "wf")
	require.NoError(t, err)
	assert.NotContains(t, stored.Nodes[2].Configuration, "api_key")
	assert.Contains(t, stored.Nodes[2].Configuration, middleware.EnvelopeKey)
	assert.Equal(t, g.Nodes[2].Position, stored.Nodes[2].Position)
	assert.Nil(t, stored.Nodes[0].Configuration)

	loaded, err := secure.Load(ctx, "wf")
	require.NoError(t, err)
	assert.Equal(t, "my-secret-sauce", loaded.Nodes[2].Configuration["api_key"])
	assert.Equal(t, "small", loaded.Nodes[2].Configuration["model"])

	// The caller's graph is not sealed in place.
	assert.Equal(t, "my-secret-sauce", g.Nodes[2].Configuration["api_key"])
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()

	secureOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlying)
	g := testutils.Workflow()
	require.NoError(t, secureOld.Save(ctx, "wf", &g))

	secureNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlying)

	loaded, err := secureNew.Load(ctx, "wf")
	require.NoError(t, err)
	assert.Equal(t, "small", loaded.Nodes[2].Configuration["model"])

	// Saved again under the new key, the old key alone can no longer read it.
	require.NoError(t, secureNew.Save(ctx, "wf", loaded))
	_, err = secureOld.Load(ctx, "wf")
	assert.Error(t, err)
}

func TestEncryptionMiddleware_RejectsPlainConfiguration(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()
	g := testutils.Workflow()
	require.NoError(t, underlying.Save(ctx, "wf", &g))

	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	_, err := secure.Load(ctx, "wf")
	assert.ErrorContains(t, err, "missing encrypted configuration envelope")

	_, err = secure.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	})
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    generateKey(t),
			FallbackKeys: [][]byte{[]byte("short-key")},
		})
	})
}

func TestEncryptionMiddleware_EnvelopeBoundToNode(t *testing.T) {
	underlying := memory.NewStore()
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	ctx := context.Background()

	g := testutils.Workflow()
	require.NoError(t, secure.Save(ctx, "wf", &g))

	// Move the summarize envelope onto notify.
	stored, err := underlying.Load(ctx, "wf")
	require.NoError(t, err)
	stored.Nodes[3].Configuration = stored.Nodes[2].Configuration
	require.NoError(t, underlying.Save(ctx, "wf", stored))

	_, err = secure.Load(ctx, "wf")
	assert.ErrorContains(t, err, `configuration of "notify"`)
}
