package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveModule(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"),
		[]byte("module example.com/demo\n\ngo 1.25\n"), 0o644))

	nested := filepath.Join(root, "internal", "books")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	// Resolution walks up from nested directories to the module root.
	path, modRoot, err := ResolveModule(nested)
	require.NoError(t, err)
	assert.Equal(t, "example.com/demo", path)
	assert.Equal(t, root, modRoot)

	path, modRoot, err = ResolveModule(root)
	require.NoError(t, err)
	assert.Equal(t, "example.com/demo", path)
	assert.Equal(t, root, modRoot)
}

func TestResolveModuleMissing(t *testing.T) {
	_, _, err := ResolveModule(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no go.mod found")
}

func TestResolveModuleMalformed(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"),
		[]byte("not a module file {{{"), 0o644))

	_, _, err := ResolveModule(root)
	require.Error(t, err)
}
