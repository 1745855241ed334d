package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/loomgen/loom/internal/cli"
	"github.com/loomgen/loom/internal/utils"
)

func main() {
	var (
		moduleFlag  = flag.String("module", "", "Module path for the target project (defaults to go.mod module)")
		verboseFlag = flag.Bool("verbose", false, "Enable verbose output")
		quietFlag   = flag.Bool("quiet", false, "Only show errors")
		cleanFlag   = flag.Bool("clean", false, "Delete generated loom_routes.go files instead of generating")
		helpFlag    = flag.Bool("help", false, "Show help information")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <directory-paths...>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Loom Route Generator\n")
		fmt.Fprintf(os.Stderr, "Scans directories for Go files with loom:: annotations and generates echo route registrations.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nDirectory Patterns:\n")
		fmt.Fprintf(os.Stderr, "  ./...              Scan current directory and all subdirectories\n")
		fmt.Fprintf(os.Stderr, "  ./internal/...     Scan internal directory recursively\n")
		fmt.Fprintf(os.Stderr, "  ./api/controllers  Scan a single package directory\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s ./...\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --module github.com/myorg/myapp ./internal/...\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --clean ./...\n", os.Args[0])
	}

	flag.Parse()

	if *helpFlag {
		flag.Usage()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Error: at least one directory path is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	var diagnostics *utils.DiagnosticSystem
	switch {
	case *quietFlag:
		diagnostics = utils.NewQuietDiagnostics()
	case *verboseFlag:
		diagnostics = utils.NewVerboseDiagnostics()
	default:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}

	runner := cli.NewRunner(diagnostics)
	if *moduleFlag != "" {
		runner.SetModule(*moduleFlag)
	}

	if *cleanFlag {
		if err := runner.Clean(args); err != nil {
			diagnostics.Error("clean failed: %v", err)
			os.Exit(1)
		}
		return
	}

	diagnostics.Section("Loom Route Generator")
	if err := runner.Run(args); err != nil {
		diagnostics.Error("%v", err)
		os.Exit(1)
	}
}
