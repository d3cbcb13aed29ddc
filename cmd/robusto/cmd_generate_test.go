package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		filepath.Join("protos", "link.c.rl"),
		outputPath(filepath.Join("protos", "link.yaml"), ""))
	assert.Equal(t,
		filepath.Join("build", "link.c.rl"),
		outputPath(filepath.Join("protos", "link.yaml"), "build"))
	assert.Equal(t, "link.c.rl", outputPath("link.toml", ""))
}

func TestExpandInputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "p.yaml"), nil, 0o644))

	t.Run("literal path passes through", func(t *testing.T) {
		t.Parallel()
		inputs, err := expandInputs([]string{"missing.yaml"})
		require.NoError(t, err)
		assert.Equal(t, []string{"missing.yaml"}, inputs)
	})

	t.Run("doublestar pattern", func(t *testing.T) {
		t.Parallel()
		inputs, err := expandInputs([]string{filepath.Join(dir, "**", "*.yaml")})
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(nested, "p.yaml")}, inputs)
	})

	t.Run("pattern without matches fails", func(t *testing.T) {
		t.Parallel()
		_, err := expandInputs([]string{filepath.Join(dir, "*.toml")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no files match")
	})
}
