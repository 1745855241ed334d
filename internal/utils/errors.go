package utils

import (
	"fmt"

	"github.com/loomgen/loom/internal/models"
)

// WrapFileError turns a filesystem failure into a positioned diagnostic.
func WrapFileError(err error, path, op string) *models.GeneratorError {
	return &models.GeneratorError{
		Kind:    models.ErrorKindFileSystem,
		File:    path,
		Message: fmt.Sprintf("%s: %v", op, err),
		Cause:   err,
	}
}

// WrapGenerationError attaches a package context to a generation failure.
func WrapGenerationError(err error, pkg string) *models.GeneratorError {
	if gerr, ok := err.(*models.GeneratorError); ok {
		return gerr
	}
	return &models.GeneratorError{
		Kind:    models.ErrorKindGeneration,
		Message: fmt.Sprintf("package %s: %v", pkg, err),
		Cause:   err,
	}
}
