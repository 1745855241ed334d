package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestExpandPatternsRecursive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "a.go"), "package a\n")
	writeFile(t, filepath.Join(root, "a", "b", "b.go"), "package b\n")
	writeFile(t, filepath.Join(root, "vendor", "v", "v.go"), "package v\n")
	writeFile(t, filepath.Join(root, "_skip", "s.go"), "package s\n")
	writeFile(t, filepath.Join(root, "testdata", "td.go"), "package td\n")
	writeFile(t, filepath.Join(root, "onlytests", "x_test.go"), "package onlytests\n")

	dirs, err := ExpandPatterns([]string{filepath.Join(root, "...")})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "a"),
		filepath.Join(root, "a", "b"),
	}, dirs)
}

func TestExpandPatternsSingleDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg", "p.go"), "package pkg\n")

	dirs, err := ExpandPatterns([]string{filepath.Join(root, "pkg")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "pkg")}, dirs)

	// Directories without buildable Go files are dropped.
	dirs, err = ExpandPatterns([]string{root})
	require.NoError(t, err)
	assert.Empty(t, dirs)
}

func TestExpandPatternsDeduplicates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg", "p.go"), "package pkg\n")

	target := filepath.Join(root, "pkg")
	dirs, err := ExpandPatterns([]string{target, target, filepath.Join(root, "...")})
	require.NoError(t, err)
	assert.Equal(t, []string{target}, dirs)
}
