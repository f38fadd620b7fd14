package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/canvas/internal/testutils"
	"github.com/aretw0/canvas/pkg/adapters/file"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunDocumentStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_YAMLContract(t *testing.T) {
	store := file.New(t.TempDir())
	store.Format = file.FormatYAML
	ports.RunDocumentStoreContract(t, store)
}

func TestFileStore_ReadsHandWrittenYAML(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteFile(t, dir, "wf.yml", testutils.WorkflowYAML)

	store := file.New(dir)
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"wf"}, ids)

	g, err := store.Load(context.Background(), "wf")
	require.NoError(t, err)
	assert.Equal(t, testutils.Workflow(), *g)

	// Saving keeps the document in its YAML file.
	require.NoError(t, store.Save(context.Background(), "wf", g))
	_, err = os.Stat(filepath.Join(dir, "wf.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_RejectsPathIDs(t *testing.T) {
	store := file.New(t.TempDir())
	assert.Error(t, store.Save(context.Background(), "../escape", &domain.Graph{}))
	_, err := store.Load(context.Background(), "")
	assert.Error(t, err)
}

func TestReadWriteGraph(t *testing.T) {
	dir := t.TempDir()
	want := testutils.Workflow()

	for _, name := range []string{"g.json", "g.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, file.WriteGraph(path, &want))
			got, err := file.ReadGraph(path)
			require.NoError(t, err)
			assert.Equal(t, want, *got)
		})
	}

	bad := testutils.WriteFile(t, dir, "bad.json", `{"nodes":[{"id":"x"},{"id":"x"}]}`)
	_, err := file.ReadGraph(bad)
	assert.ErrorIs(t, err, domain.ErrInvalidGraph)

	_, err = file.ReadGraph(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
