package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAPIGenWritesDocument(t *testing.T) {
	t.Parallel()

	output := filepath.Join(t.TempDir(), "openapi.json")

	cmd := newOpenAPIGenCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"-o", output, "--version", "1.2.3"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), output)

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "1.2.3", doc["info"].(map[string]any)["version"])
	assert.Contains(t, doc["paths"], "/v1/todos")
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	t.Parallel()

	var names []string
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"run", "migrate", "openapi-gen"} {
		assert.Contains(t, names, want)
	}
}
