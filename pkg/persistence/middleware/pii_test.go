package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/canvas/pkg/adapters/memory"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	underlying := memory.NewStore()
	mw, err := middleware.NewPIIMiddleware(middleware.DefaultSecretPatterns)
	require.NoError(t, err)
	secure := mw(underlying)
	ctx := context.Background()

	g := &domain.Graph{Nodes: []domain.Node{{
		ID: "call", Type: "http",
		Configuration: map[string]any{
			"url":     "https://example.com",
			"API_KEY": "secret123",
			"auth": map[string]any{
				"user":         "jdoe",
				"bearer_token": "abc",
			},
		},
	}}}
	require.NoError(t, secure.Save(ctx, "c", g))

	// The in-memory graph is not modified.
	assert.Equal(t, "secret123", g.Nodes[0].Configuration["API_KEY"])

	stored, err := underlying.Load(ctx, "c")
	require.NoError(t, err)
	cfg := stored.Nodes[0].Configuration
	assert.Equal(t, "https://example.com", cfg["url"])
	assert.Equal(t, middleware.Mask, cfg["API_KEY"])

	auth := cfg["auth"].(map[string]any)
	assert.Equal(t, "jdoe", auth["user"])
	assert.Equal(t, middleware.Mask, auth["bearer_token"])
}

func TestPIIMiddleware_InvalidPattern(t *testing.T) {
	_, err := middleware.NewPIIMiddleware([]string{"("})
	assert.Error(t, err)
}

func TestChain_EncryptsMaskedConfiguration(t *testing.T) {
	underlying := memory.NewStore()
	pii, err := middleware.NewPIIMiddleware([]string{"password"})
	require.NoError(t, err)
	store := middleware.Chain(underlying,
		pii,
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: make([]byte, 32)}),
	)
	ctx := context.Background()

	g := &domain.Graph{Nodes: []domain.Node{{ID: "db", Configuration: map[string]any{"password": "hunter2", "host": "db"}}}}
	require.NoError(t, store.Save(ctx, "c", g))

	loaded, err := store.Load(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, middleware.Mask, loaded.Nodes[0].Configuration["password"])
	assert.Equal(t, "db", loaded.Nodes[0].Configuration["host"])
}
