package controller

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	m "testsmith.dev/pkg/testsmith/internal/model"
)

// SimpleUI implements UI using cobra Command's output as plain lines.
type SimpleUI struct {
	cmd     *cobra.Command
	verbose bool

	mu sync.Mutex
}

// NewSimpleUI creates a new SimpleUI. When verbose is set, test revisions are
// printed as unified diffs.
func NewSimpleUI(cmd *cobra.Command, verbose bool) *SimpleUI {
	return &SimpleUI{cmd: cmd, verbose: verbose}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	return ctx.Err()
}

// Close finalizes the UI.
func (s *SimpleUI) Close(context.Context) {}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(context.Context) {}

// OnStatus prints a run's state transition.
func (s *SimpleUI) OnStatus(projectID string, status m.Status) {
	s.printf("[%s] %s\n", shortID(projectID), status)
}

// OnRevision prints which test files a stage produced.
func (s *SimpleUI) OnRevision(projectID string, revision m.TestRevision) {
	names := make([]string, 0, len(revision.Current))
	for _, t := range revision.Current {
		names = append(names, t.Filename)
	}

	s.printf("[%s] %s produced %d test file(s): %s\n",
		shortID(projectID), revision.Stage, len(revision.Current), strings.Join(names, ", "))

	if !s.verbose {
		return
	}

	for _, diff := range revisionDiffs(revision) {
		s.printf("%s", diff)
	}
}

// OnSnapshot prints the outcome of a completed build iteration.
func (s *SimpleUI) OnSnapshot(projectID string, snapshot m.RunSnapshot) {
	outcome := "failed"
	if snapshot.Passed {
		outcome = "passed"
	}

	errs := len(m.ErrorEntries(snapshot.BuildLogs))
	s.printf("[%s] iteration %d: build %s, %d error(s), coverage %s\n",
		shortID(projectID), snapshot.Iteration, outcome, errs, percent(snapshot.CoverageReport.OverallCoverage))
}

// DisplayProjectStarted announces a project before its run starts.
func (s *SimpleUI) DisplayProjectStarted(ctx context.Context, projectID string, dir m.Path, files int) {
	if ctx.Err() != nil {
		return
	}

	s.printf("[%s] %s: %d source file(s)\n", shortID(projectID), dir, files)
}

// DisplayAnalysis prints the symbol table of dir.
func (s *SimpleUI) DisplayAnalysis(ctx context.Context, dir m.Path, files []m.SourceFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s\n%s", dir, renderAnalysisTable(files))

	return nil
}

// DisplayResult prints the final response of one project.
func (s *SimpleUI) DisplayResult(ctx context.Context, dir m.Path, resp m.TestGenerationResponse) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderResult(dir, resp))

	return nil
}

// DisplayDoctor prints toolchain availability.
func (s *SimpleUI) DisplayDoctor(ctx context.Context, tools []m.ToolStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s", renderDoctorTable(tools))

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func newTable(buf *bytes.Buffer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(buf)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	return table
}

func renderAnalysisTable(files []m.SourceFile) string {
	var buf bytes.Buffer

	table := newTable(&buf, []string{"File", "Functions", "Methods", "Classes", "Includes"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER,
	})

	totalSymbols := 0

	for _, f := range files {
		functions, methods, classes := symbolCounts(f)
		totalSymbols += len(f.Symbols)
		table.Append([]string{
			f.Path,
			fmt.Sprintf("%d", functions),
			fmt.Sprintf("%d", methods),
			fmt.Sprintf("%d", classes),
			fmt.Sprintf("%d", len(f.Includes)),
		})
	}

	table.SetFooter([]string{fmt.Sprintf("Total Files %d", len(files)), "", "", "", fmt.Sprintf("%d symbols", totalSymbols)})
	table.Render()

	return buf.String()
}

func renderResult(dir m.Path, resp m.TestGenerationResponse) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: %s (project %s, %d iteration(s), %d build fix(es), %d refinement(s))\n",
		dir, resp.Status, resp.ProjectID, resp.Iterations, resp.BuildFixesUsed, resp.RefinesUsed)

	if len(resp.GeneratedTests) > 0 {
		var buf bytes.Buffer

		table := newTable(&buf, []string{"Test File", "Source", "Functions", "Coverage"})

		tests := append([]m.GeneratedTest(nil), resp.GeneratedTests...)
		sort.Slice(tests, func(i, j int) bool { return tests[i].Filename < tests[j].Filename })

		for _, t := range tests {
			table.Append([]string{t.Filename, t.SourceFile, fmt.Sprintf("%d", len(t.FunctionsTested)), percent(t.CoverageEstimate)})
		}

		if resp.CoverageReport != nil {
			table.SetFooter([]string{"Overall", "", "", percent(resp.CoverageReport.OverallCoverage)})
		}

		table.Render()
		b.WriteString(buf.String())
	}

	if resp.CoverageReport != nil && len(resp.CoverageReport.Uncovered) > 0 {
		b.WriteString("Uncovered:\n")

		for _, sym := range resp.CoverageReport.Uncovered {
			fmt.Fprintf(&b, "  %s:%d %s\n", sym.Span.File, sym.Span.StartLine, sym.Declaration())
		}
	}

	for _, entry := range m.ErrorEntries(resp.BuildLogs) {
		if entry.File != "" {
			fmt.Fprintf(&b, "  error: %s:%d: %s\n", entry.File, entry.Line, entry.Message)
			continue
		}

		fmt.Fprintf(&b, "  error: %s\n", entry.Message)
	}

	if resp.Error != "" {
		fmt.Fprintf(&b, "Error: %s\n", resp.Error)
	}

	return b.String()
}

func renderDoctorTable(tools []m.ToolStatus) string {
	var buf bytes.Buffer

	table := newTable(&buf, []string{"Tool", "Required", "Found", "Path"})

	for _, tool := range tools {
		found := "no"
		if tool.Found {
			found = "yes"
		}

		required := "no"
		if tool.Required {
			required = "yes"
		}

		table.Append([]string{tool.Name, required, found, tool.Path})
	}

	table.Render()

	return buf.String()
}

// revisionDiffs renders a unified diff per test file the revision changed.
func revisionDiffs(revision m.TestRevision) []string {
	previous := make(map[string]string, len(revision.Previous))
	for _, t := range revision.Previous {
		previous[t.Filename] = t.Content
	}

	var diffs []string

	for _, t := range revision.Current {
		before, ok := previous[t.Filename]
		if ok && before == t.Content {
			continue
		}

		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(before),
			B:        difflib.SplitLines(t.Content),
			FromFile: "a/" + t.Filename,
			ToFile:   "b/" + t.Filename,
			Context:  3,
		})
		if err != nil || diff == "" {
			continue
		}

		diffs = append(diffs, diff)
	}

	return diffs
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
