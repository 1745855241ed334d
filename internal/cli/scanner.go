package cli

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/loomgen/loom/internal/utils"
)

// ExpandPatterns resolves CLI directory arguments into the concrete list of
// package directories to scan. A trailing /... recurses into every
// subdirectory the Go toolchain would consider part of the module; plain
// paths name a single package directory.
func ExpandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string

	add := func(dir string) {
		clean := filepath.Clean(dir)
		if !seen[clean] {
			seen[clean] = true
			dirs = append(dirs, clean)
		}
	}

	for _, pattern := range patterns {
		if !strings.HasSuffix(pattern, "...") {
			if hasGoFiles(pattern) {
				add(pattern)
			}
			continue
		}

		root := filepath.Clean(strings.TrimSuffix(pattern, "..."))
		if root == "" {
			root = "."
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if skipDir(d.Name()) && path != root {
				return filepath.SkipDir
			}
			if hasGoFiles(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, utils.WrapFileError(err, root, "scanning directories")
		}
	}

	sort.Strings(dirs)
	return dirs, nil
}

// skipDir matches directories the Go toolchain ignores.
func skipDir(name string) bool {
	if name == "vendor" || name == "testdata" || name == "node_modules" {
		return true
	}
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func hasGoFiles(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go") {
			return true
		}
	}
	return false
}
