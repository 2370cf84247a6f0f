// Package controller provides output adapters for displaying test generation runs.
package controller

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "testsmith.dev/pkg/testsmith/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeReport StartMode = iota
	ModeGenerate
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithReportMode sets the UI to static report mode (analysis, doctor, show).
func WithReportMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeReport
	}
}

// WithGenerateMode sets the UI to live run progress mode.
func WithGenerateMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeGenerate
	}
}

// UI displays analysis results and run progress. It receives run events as
// an observer; the event methods may be called from several runs at once.
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)

	OnStatus(projectID string, status m.Status)
	OnRevision(projectID string, revision m.TestRevision)
	OnSnapshot(projectID string, snapshot m.RunSnapshot)

	DisplayProjectStarted(ctx context.Context, projectID string, dir m.Path, files int)
	DisplayAnalysis(ctx context.Context, dir m.Path, files []m.SourceFile) error
	DisplayResult(ctx context.Context, dir m.Path, resp m.TestGenerationResponse) error
	DisplayDoctor(ctx context.Context, tools []m.ToolStatus) error
}

// NewUI returns the interactive TUI on a terminal and SimpleUI otherwise.
func NewUI(cmd *cobra.Command, tty bool, verbose bool) UI {
	if tty {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd, verbose)
}

// IsTTY reports whether f is an interactive terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}

	return id
}

func symbolCounts(f m.SourceFile) (functions, methods, classes int) {
	for _, sym := range f.Symbols {
		switch sym.Kind {
		case m.SymbolFunction:
			functions++
		case m.SymbolMethod:
			methods++
		case m.SymbolClass:
			classes++
		}
	}

	return functions, methods, classes
}

func percent(v float64) string {
	return formatPercent(v * 100)
}
