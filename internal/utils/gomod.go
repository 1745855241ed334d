package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"

	"github.com/loomgen/loom/internal/models"
)

// ResolveModule walks up from dir to the nearest go.mod and returns the
// declared module path together with the module root directory. Generation
// targets must live inside a module; the root anchors the import paths of
// generated files.
func ResolveModule(dir string) (string, string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", "", WrapFileError(err, dir, "resolving absolute path")
	}

	for current := abs; ; current = filepath.Dir(current) {
		candidate := filepath.Join(current, "go.mod")
		data, err := os.ReadFile(candidate)
		if err == nil {
			file, perr := modfile.Parse(candidate, data, nil)
			if perr != nil {
				return "", "", WrapFileError(perr, candidate, "parsing go.mod")
			}
			if file.Module == nil || file.Module.Mod.Path == "" {
				return "", "", &models.GeneratorError{
					Kind:    models.ErrorKindFileSystem,
					File:    candidate,
					Message: "go.mod has no module directive",
				}
			}
			return file.Module.Mod.Path, current, nil
		}
		if !os.IsNotExist(err) {
			return "", "", WrapFileError(err, candidate, "reading go.mod")
		}
		if filepath.Dir(current) == current {
			return "", "", &models.GeneratorError{
				Kind:    models.ErrorKindFileSystem,
				File:    dir,
				Message: fmt.Sprintf("no go.mod found above %s", dir),
			}
		}
	}
}
