package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/canvas/internal/config"
	"github.com/aretw0/canvas/internal/logging"
	"github.com/aretw0/canvas/internal/testutils"
	"github.com/aretw0/canvas/pkg/adapters/file"
	"github.com/aretw0/canvas/pkg/adapters/memory"
	"github.com/aretw0/canvas/pkg/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workflowJSON(t *testing.T) []byte {
	t.Helper()
	g := testutils.Workflow()
	data, err := json.Marshal(g)
	require.NoError(t, err)
	return data
}

func TestOpenBackend_Stores(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		b, err := OpenBackend(config.Default(), logging.NewNop())
		require.NoError(t, err)
		defer b.Close()
		assert.IsType(t, &memory.Store{}, b.Store)
		assert.Nil(t, b.Feed)
	})

	t.Run("file", func(t *testing.T) {
		cfg := config.Default()
		cfg.Store.Backend = config.BackendFile
		cfg.Store.Path = t.TempDir()
		cfg.Store.Format = "yaml"

		b, err := OpenBackend(cfg, logging.NewNop())
		require.NoError(t, err)
		defer b.Close()
		fs, ok := b.Store.(*file.Store)
		require.True(t, ok)
		assert.Equal(t, file.FormatYAML, fs.Format)
		assert.Equal(t, cfg.Store.Path, fs.BasePath)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := config.Default()
		cfg.Store.Backend = config.BackendRedis
		cfg.Redis.Addr = mr.Addr()
		cfg.Clipboard.Shared = true

		b, err := OpenBackend(cfg, logging.NewNop())
		require.NoError(t, err)
		defer b.Close()
		assert.IsType(t, &redis.Store{}, b.Store)
		require.NotNil(t, b.Feed)

		ctx := context.Background()
		g := testutils.Workflow()
		require.NoError(t, b.Documents.Save(ctx, "wf", &g))
		_, err = b.Documents.Copy(ctx, "wf", []string{"fetch"})
		require.NoError(t, err)

		assert.True(t, mr.Exists(cfg.Redis.Prefix+"wf"))
		assert.True(t, mr.Exists(cfg.Redis.Prefix+"clipboard:default"))
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := config.Default()
		cfg.Store.Backend = "sqlite"
		_, err := OpenBackend(cfg, logging.NewNop())
		assert.Error(t, err)
	})
}

func TestNewAPI_MetricsAndDocuments(t *testing.T) {
	b, err := OpenBackend(config.Default(), logging.NewNop())
	require.NoError(t, err)

	handler, err := NewAPI(context.Background(), b, logging.NewNop())
	require.NoError(t, err)
	srv := httptest.NewServer(handler)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/canvases/wf", bytes.NewReader(workflowJSON(t)))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/canvases/wf")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), `canvas_document_changes_total{kind="node_upsert"} 4`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNewAPI_RedisFeed(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Default()
	cfg.Store.Backend = config.BackendRedis
	cfg.Redis.Addr = mr.Addr()

	b, err := OpenBackend(cfg, logging.NewNop())
	require.NoError(t, err)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	handler, err := NewAPI(ctx, b, logging.NewNop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInspect_PlainOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Inspect(&buf, "wf", testutils.Workflow()))
	assert.Contains(t, buf.String(), "Fetch")
	assert.False(t, IsTerminal(&buf))
}

func TestSignalContext_CancelledElsewhere(t *testing.T) {
	sc := NewSignalContext(context.Background())
	sc.Cancel()
	<-sc.Done()
	assert.Nil(t, sc.Signal())
}

func TestOpenBackend_ProtectsConfiguration(t *testing.T) {
	cfg := config.Default()
	cfg.Store.EncryptionKey = base64.StdEncoding.EncodeToString(make([]byte, 32))
	cfg.Store.Redact = []string{"password"}

	b, err := OpenBackend(cfg, logging.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	g := testutils.Workflow()
	g.Nodes[2].Configuration["password"] = "hunter2"
	require.NoError(t, b.Documents.Save(ctx, "wf", &g))

	raw, err := b.Store.Load(ctx, "wf")
	require.NoError(t, err)
	assert.NotContains(t, raw.Nodes[2].Configuration, "model")

	loaded, err := b.Documents.Load(ctx, "wf")
	require.NoError(t, err)
	assert.Equal(t, "small", loaded.Nodes[2].Configuration["model"])
	assert.Equal(t, "***", loaded.Nodes[2].Configuration["password"])
}
