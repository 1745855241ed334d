package cli

import (
	"fmt"

	"github.com/loomgen/loom/internal/generator"
	"github.com/loomgen/loom/internal/parser"
	"github.com/loomgen/loom/internal/utils"
)

// Runner drives the scan-classify-generate pipeline over a set of package
// directories and reports everything through the diagnostic system.
type Runner struct {
	diag      *utils.DiagnosticSystem
	parser    *parser.Parser
	generator *generator.Generator
	module    string
}

// NewRunner creates a runner reporting through the given diagnostics.
func NewRunner(diag *utils.DiagnosticSystem) *Runner {
	return &Runner{
		diag:      diag,
		parser:    parser.NewParser(),
		generator: generator.NewGenerator(),
	}
}

// SetModule overrides go.mod resolution with an explicit module path.
func (r *Runner) SetModule(path string) {
	r.module = path
}

// Run generates route files for every package matched by the patterns.
// Diagnostics are printed as they are found; the returned error summarizes
// the run when anything failed, so callers can exit non-zero.
func (r *Runner) Run(patterns []string) error {
	dirs, err := ExpandPatterns(patterns)
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		return fmt.Errorf("no Go packages found in %v", patterns)
	}

	module, root, merr := utils.ResolveModule(dirs[0])
	if r.module != "" {
		module = r.module
		if merr != nil {
			// Explicit module path without a go.mod: anchor the import
			// paths of generated files at the first matched directory.
			root = dirs[0]
		}
	} else if merr != nil {
		return merr
	}
	r.generator.SetModule(module, root)
	r.diag.Info("module %s, %d package(s)", module, len(dirs))

	written := 0
	failed := 0
	for _, dir := range dirs {
		spec, perr := r.parser.ParseDirectory(dir)
		if perr != nil {
			r.diag.Report(utils.WrapGenerationError(perr, dir))
			failed++
			continue
		}

		ok, diags, werr := r.generator.WriteFile(dir, spec)
		failed += r.diag.ReportAll(diags)
		if werr != nil {
			r.diag.Error("%s: %v", dir, werr)
			failed++
			continue
		}
		if ok {
			r.diag.Verbose("%s: wrote %s", dir, generator.GeneratedFileName)
			written++
		}
	}

	if failed > 0 {
		return fmt.Errorf("generation finished with %d problem(s)", failed)
	}
	r.diag.Success("generated %d route file(s)", written)
	return nil
}

// Clean removes generated route files from every matched package directory.
func (r *Runner) Clean(patterns []string) error {
	dirs, err := ExpandPatterns(patterns)
	if err != nil {
		return err
	}

	for _, dir := range dirs {
		if err := generator.CleanFile(dir); err != nil {
			return err
		}
		r.diag.Verbose("%s: cleaned", dir)
	}
	r.diag.Success("removed %s from %d package(s)", generator.GeneratedFileName, len(dirs))
	return nil
}
