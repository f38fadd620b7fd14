package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/canvas/internal/testutils"
	"github.com/aretw0/canvas/pkg/adapters/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeWorkflow(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	g := testutils.Workflow()
	require.NoError(t, file.WriteGraph(path, &g))
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "canvas version "))
}

func TestGraph(t *testing.T) {
	path := writeWorkflow(t, "wf.yaml")

	out, err := run(t, "", "graph", path, "--selected", "fetch")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph LR"))
	assert.Contains(t, out, "subgraph post")
	assert.Contains(t, out, "class fetch selected;")
}

func TestInspect(t *testing.T) {
	path := writeWorkflow(t, "wf.json")

	out, err := run(t, "", "inspect", path)
	require.NoError(t, err)
	assert.Contains(t, out, "# wf")
	assert.Contains(t, out, "Summarize")
}

func TestCopyPaste(t *testing.T) {
	path := writeWorkflow(t, "wf.json")

	text, err := run(t, "", "copy", path, "fetch")
	require.NoError(t, err)
	assert.Contains(t, text, `"nuraly-workflow-nodes"`)

	out, err := run(t, text, "paste", path, "--x", "100", "--y", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "pasted 1 nodes")

	g, err := file.ReadGraph(path)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 5)
	pasted := g.Nodes[4]
	assert.Equal(t, "Fetch (copy)", pasted.Name)
	assert.NotEqual(t, "fetch", pasted.ID)
}

func TestErrors(t *testing.T) {
	_, err := run(t, "", "graph", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := writeWorkflow(t, "wf.json")
	_, err = run(t, "", "copy", path, "ghost")
	assert.Error(t, err)

	_, err = run(t, "", "mcp", "--transport", "carrier-pigeon")
	assert.ErrorContains(t, err, "unknown transport")
}

func TestValidate(t *testing.T) {
	path := writeWorkflow(t, "wf.yaml")
	out, err := run(t, "", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	broken := testutils.WriteFile(t, t.TempDir(), "broken.json",
		`{"nodes":[{"id":"a","type":"x","position":{"x":0,"y":0},"ports":{}}],"edges":[{"id":"e","sourceNodeId":"a","targetNodeId":"ghost"}]}`)
	_, err = run(t, "", "validate", broken)
	assert.ErrorContains(t, err, "Missing node 'ghost'")
}
