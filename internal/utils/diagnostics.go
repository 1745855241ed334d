package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/loomgen/loom/internal/models"
)

// DiagnosticLevel controls how much the CLI prints.
type DiagnosticLevel int

const (
	DiagnosticSilent DiagnosticLevel = iota
	DiagnosticError
	DiagnosticWarn
	DiagnosticInfo
	DiagnosticVerbose
	DiagnosticDebug
)

// DiagnosticSystem provides structured, user-friendly CLI output. Levels at
// or below the configured one are printed; errors go to stderr.
type DiagnosticSystem struct {
	level    DiagnosticLevel
	output   io.Writer
	errorOut io.Writer
}

// NewDiagnosticSystem creates a diagnostic system writing to stdout/stderr.
func NewDiagnosticSystem(level DiagnosticLevel) *DiagnosticSystem {
	return &DiagnosticSystem{
		level:    level,
		output:   os.Stdout,
		errorOut: os.Stderr,
	}
}

// SetWriters redirects output, mainly for tests.
func (d *DiagnosticSystem) SetWriters(out, errOut io.Writer) {
	d.output = out
	d.errorOut = errOut
}

// NewQuietDiagnostics creates a diagnostic system that only shows errors.
func NewQuietDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticError)
}

// NewVerboseDiagnostics creates a diagnostic system with full output.
func NewVerboseDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticVerbose)
}

var (
	errorTag   = color.New(color.FgRed, color.Bold)
	warnTag    = color.New(color.FgYellow)
	infoTag    = color.New(color.FgBlue)
	successTag = color.New(color.FgGreen)
	debugTag   = color.New(color.FgMagenta)
	dimTag     = color.New(color.Faint)
	headerTag  = color.New(color.FgCyan, color.Bold)
)

func (d *DiagnosticSystem) write(w io.Writer, tag *color.Color, label, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", tag.Sprintf("[%s]", label), fmt.Sprintf(format, args...))
}

// Error outputs error messages (always shown unless silent).
func (d *DiagnosticSystem) Error(format string, args ...interface{}) {
	if d.level >= DiagnosticError {
		d.write(d.errorOut, errorTag, "ERROR", format, args...)
	}
}

// Warn outputs warning messages.
func (d *DiagnosticSystem) Warn(format string, args ...interface{}) {
	if d.level >= DiagnosticWarn {
		d.write(d.output, warnTag, "WARN", format, args...)
	}
}

// Info outputs informational messages.
func (d *DiagnosticSystem) Info(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.write(d.output, infoTag, "INFO", format, args...)
	}
}

// Success outputs success messages with emphasis.
func (d *DiagnosticSystem) Success(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.write(d.output, successTag, "OK", format, args...)
	}
}

// Verbose outputs detailed messages (verbose mode only).
func (d *DiagnosticSystem) Verbose(format string, args ...interface{}) {
	if d.level >= DiagnosticVerbose {
		d.write(d.output, dimTag, "VERBOSE", format, args...)
	}
}

// Debug outputs debug messages (highest verbosity).
func (d *DiagnosticSystem) Debug(format string, args ...interface{}) {
	if d.level >= DiagnosticDebug {
		d.write(d.output, debugTag, "DEBUG", format, args...)
	}
}

// Section prints a prominent header.
func (d *DiagnosticSystem) Section(title string) {
	if d.level >= DiagnosticInfo {
		headerTag.Fprintf(d.output, "%s\n", title)
	}
}

// List outputs a bulleted list item.
func (d *DiagnosticSystem) List(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		fmt.Fprintf(d.output, "  - %s\n", fmt.Sprintf(format, args...))
	}
}

// Report prints one generation diagnostic with its position, kind and any
// suggested rewrites.
func (d *DiagnosticSystem) Report(diag *models.GeneratorError) {
	if d.level < DiagnosticError {
		return
	}
	fmt.Fprintf(d.errorOut, "%s %s %s\n",
		errorTag.Sprintf("[%s]", diag.Kind),
		dimTag.Sprintf("%s:%d:", diag.File, diag.Line),
		diag.Message)
	for _, suggestion := range diag.Suggestions {
		fmt.Fprintf(d.errorOut, "    suggestion: %s\n", suggestion)
	}
}

// ReportAll prints a batch of diagnostics and returns how many there were.
func (d *DiagnosticSystem) ReportAll(diags []*models.GeneratorError) int {
	for _, diag := range diags {
		d.Report(diag)
	}
	return len(diags)
}
