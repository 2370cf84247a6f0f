package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	m "testsmith.dev/pkg/testsmith/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

const tuiBanner = `╔════════════════════════════════════════════════════════════════╗
║                 testsmith - C++ Test Generation                ║
╚════════════════════════════════════════════════════════════════╝
`

// TUI implements UI using Bubble Tea: live run progress while generating and
// a pager for reports taller than the terminal.
type TUI struct {
	output io.Writer

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
	report  []string
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the progress view in generate mode.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := StartConfig{}
	for _, opt := range options {
		opt(&cfg)
	}

	if cfg.mode != ModeGenerate {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.program != nil {
		return nil
	}

	program := tea.NewProgram(newProgressModel(),
		tea.WithOutput(t.output),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	done := make(chan struct{})

	go func() {
		defer close(done)

		if _, err := program.Run(); err != nil {
			fmt.Fprintf(t.output, "progress view failed: %v\n", err)
		}
	}()

	t.program = program
	t.done = done

	return nil
}

// Close stops the progress view.
func (t *TUI) Close(context.Context) {
	t.stopProgress()
}

// Wait stops the progress view and shows the collected report, paging it
// when it does not fit the terminal.
func (t *TUI) Wait(ctx context.Context) {
	t.stopProgress()

	if ctx.Err() != nil {
		return
	}

	t.mu.Lock()
	lines := t.report
	t.report = nil
	t.mu.Unlock()

	if len(lines) == 0 {
		return
	}

	pager := newReportPager(lines)

	if f, ok := t.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			pager.height = height
			pager.width = width
		}
	}

	if !pager.needsPagination() {
		_, _ = fmt.Fprint(t.output, pager.View())
		return
	}

	program := tea.NewProgram(pager, tea.WithOutput(t.output), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		_, _ = fmt.Fprint(t.output, strings.Join(lines, "\n")+"\n")
	}
}

func (t *TUI) stopProgress() {
	t.mu.Lock()
	program, done := t.program, t.done
	t.program, t.done = nil, nil
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Quit()
	<-done
}

func (t *TUI) send(msg tea.Msg) {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program != nil {
		program.Send(msg)
	}
}

// OnStatus updates the run's progress row.
func (t *TUI) OnStatus(projectID string, status m.Status) {
	t.send(statusMsg{id: projectID, status: status})
}

// OnRevision updates the run's test file count.
func (t *TUI) OnRevision(projectID string, revision m.TestRevision) {
	t.send(revisionMsg{id: projectID, tests: len(revision.Current)})
}

// OnSnapshot updates the run's iteration and coverage.
func (t *TUI) OnSnapshot(projectID string, snapshot m.RunSnapshot) {
	t.send(snapshotMsg{id: projectID, snapshot: snapshot})
}

// DisplayProjectStarted adds a progress row for the project.
func (t *TUI) DisplayProjectStarted(ctx context.Context, projectID string, dir m.Path, files int) {
	if ctx.Err() != nil {
		return
	}

	t.send(rowAddedMsg{id: projectID, label: string(dir), files: files})
}

// DisplayAnalysis adds the symbol table of dir to the report.
func (t *TUI) DisplayAnalysis(ctx context.Context, dir m.Path, files []m.SourceFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	lines := []string{titleStyle.Render("  📂 " + string(dir))}

	if len(files) == 0 {
		lines = append(lines, "  📭 No source files found")
	}

	for _, f := range files {
		functions, methods, classes := symbolCounts(f)
		lines = append(lines, fmt.Sprintf("  %s: %s functions, %s methods, %s classes",
			f.Path, countText(functions), countText(methods), countText(classes)))

		for _, sym := range f.Symbols {
			if sym.Callable() {
				lines = append(lines, dimStyle.Render(fmt.Sprintf("    %d: %s", sym.Span.StartLine, sym.Declaration())))
			}
		}
	}

	t.appendReport(append(lines, "")...)

	return nil
}

// DisplayResult adds the final response to the report and marks its row done.
func (t *TUI) DisplayResult(ctx context.Context, dir m.Path, resp m.TestGenerationResponse) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.send(resultMsg{id: resp.ProjectID, status: resp.Status})

	header := fmt.Sprintf("  %s %s: %s", resultIcon(resp.Status), dir, styleResult(resp.Status))
	lines := []string{titleStyle.Render(header)}

	for _, line := range strings.Split(strings.TrimRight(renderResult(dir, resp), "\n"), "\n")[1:] {
		lines = append(lines, "  "+line)
	}

	t.appendReport(append(lines, "")...)

	return nil
}

// DisplayDoctor adds toolchain availability to the report.
func (t *TUI) DisplayDoctor(ctx context.Context, tools []m.ToolStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	lines := []string{titleStyle.Render("  🔧 Toolchain")}

	for _, tool := range tools {
		switch {
		case tool.Found:
			lines = append(lines, okStyle.Render(fmt.Sprintf("  ✓ %s", tool.Name))+dimStyle.Render(" "+tool.Path))
		case tool.Required:
			lines = append(lines, failStyle.Render(fmt.Sprintf("  ✗ %s (required)", tool.Name)))
		default:
			lines = append(lines, warnStyle.Render(fmt.Sprintf("  - %s (optional)", tool.Name)))
		}
	}

	t.appendReport(append(lines, "")...)

	return nil
}

func (t *TUI) appendReport(lines ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.report = append(t.report, lines...)
}

func countText(n int) string {
	if n == 0 {
		return dimStyle.Render("0")
	}

	return fmt.Sprintf("%d", n)
}

func resultIcon(status m.ResponseStatus) string {
	switch status {
	case m.ResponseSuccess:
		return "✓"
	case m.ResponsePartial:
		return "~"
	case m.ResponseError:
		return "✗"
	}

	return "?"
}

func styleResult(status m.ResponseStatus) string {
	switch status {
	case m.ResponseSuccess:
		return okStyle.Render(string(status))
	case m.ResponsePartial:
		return warnStyle.Render(string(status))
	case m.ResponseError:
		return failStyle.Render(string(status))
	}

	return string(status)
}

// Progress view messages.
type (
	rowAddedMsg struct {
		id    string
		label string
		files int
	}
	statusMsg struct {
		id     string
		status m.Status
	}
	revisionMsg struct {
		id    string
		tests int
	}
	snapshotMsg struct {
		id       string
		snapshot m.RunSnapshot
	}
	resultMsg struct {
		id     string
		status m.ResponseStatus
	}
)

type progressRow struct {
	label     string
	files     int
	status    m.Status
	tests     int
	iteration int
	passed    bool
	coverage  float64
	result    m.ResponseStatus
}

// progressModel shows one row per project with its live run state.
type progressModel struct {
	spinner spinner.Model
	rows    map[string]*progressRow
	order   []string
}

func newProgressModel() progressModel {
	return progressModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		rows:    map[string]*progressRow{},
	}
}

func (pm progressModel) Init() tea.Cmd {
	return pm.spinner.Tick
}

func (pm progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd

		pm.spinner, cmd = pm.spinner.Update(msg)

		return pm, cmd
	case rowAddedMsg:
		if _, ok := pm.rows[msg.id]; !ok {
			pm.order = append(pm.order, msg.id)
		}

		pm.rows[msg.id] = &progressRow{label: msg.label, files: msg.files, status: m.StatusQueued}
	case statusMsg:
		pm.row(msg.id).status = msg.status
	case revisionMsg:
		pm.row(msg.id).tests = msg.tests
	case snapshotMsg:
		row := pm.row(msg.id)
		row.iteration = msg.snapshot.Iteration
		row.passed = msg.snapshot.Passed
		row.coverage = msg.snapshot.CoverageReport.OverallCoverage
	case resultMsg:
		pm.row(msg.id).result = msg.status
	}

	return pm, nil
}

func (pm progressModel) row(id string) *progressRow {
	row, ok := pm.rows[id]
	if !ok {
		row = &progressRow{label: shortID(id)}
		pm.rows[id] = row
	}

	return row
}

func (pm progressModel) View() string {
	var b strings.Builder

	b.WriteString(tuiBanner)
	b.WriteString("\n")

	for _, id := range pm.order {
		row := pm.rows[id]

		lead := pm.spinner.View()
		if row.result != "" {
			lead = resultIcon(row.result)
		}

		fmt.Fprintf(&b, "  %s %s %s", lead, titleStyle.Render(row.label), dimStyle.Render(fmt.Sprintf("(%d files)", row.files)))
		fmt.Fprintf(&b, "  %s", row.status)

		if row.tests > 0 {
			fmt.Fprintf(&b, "  tests: %d", row.tests)
		}

		if row.iteration > 0 {
			build := failStyle.Render("build failed")
			if row.passed {
				build = okStyle.Render("build ok")
			}

			fmt.Fprintf(&b, "  iteration %d: %s, coverage %s", row.iteration, build, percent(row.coverage))
		}

		b.WriteString("\n")
	}

	return b.String()
}

// reportPager pages report lines that do not fit the terminal.
type reportPager struct {
	lines  []string
	height int
	width  int
	offset int
}

func newReportPager(lines []string) reportPager {
	return reportPager{lines: lines}
}

func (rp reportPager) Init() tea.Cmd {
	return nil
}

func (rp reportPager) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rp.height = msg.Height
		rp.width = msg.Width

		return rp, nil

	case tea.KeyMsg:
		return rp.handleKeyPress(msg)
	}

	return rp, nil
}

func (rp reportPager) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	//nolint:exhaustive // We only handle specific navigation keys
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return rp, tea.Quit
	default:
	}

	switch msg.String() {
	case "q":
		return rp, tea.Quit
	case "down", "j":
		rp.offset = rp.clamp(rp.offset + 1)
	case "up", "k":
		rp.offset = rp.clamp(rp.offset - 1)
	case "g", "home":
		rp.offset = 0
	case "G", "end":
		rp.offset = rp.maxOffset()
	case "d", "pgdown":
		rp.offset = rp.clamp(rp.offset + rp.itemsPerPage())
	case "u", "pgup":
		rp.offset = rp.clamp(rp.offset - rp.itemsPerPage())
	}

	return rp, nil
}

func (rp reportPager) clamp(offset int) int {
	if offset < 0 {
		return 0
	}

	if maxOff := rp.maxOffset(); offset > maxOff {
		return maxOff
	}

	return offset
}

// itemsPerPage reserves the banner (4 lines) and the footer (3 lines).
func (rp reportPager) itemsPerPage() int {
	if rp.height == 0 {
		return 10
	}

	available := rp.height - 7
	if available < 1 {
		return 1
	}

	return available
}

func (rp reportPager) maxOffset() int {
	maxOff := len(rp.lines) - rp.itemsPerPage()
	if maxOff < 0 {
		return 0
	}

	return maxOff
}

func (rp reportPager) needsPagination() bool {
	return rp.height > 0 && len(rp.lines) > rp.itemsPerPage()
}

func (rp reportPager) View() string {
	var b strings.Builder

	b.WriteString(tuiBanner)
	b.WriteString("\n")

	visible := rp.lines
	paged := rp.needsPagination()

	end := len(rp.lines)
	if paged {
		end = rp.offset + rp.itemsPerPage()
		if end > len(rp.lines) {
			end = len(rp.lines)
		}

		visible = rp.lines[rp.offset:end]
	}

	for _, line := range visible {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if paged {
		fmt.Fprintf(&b, "\n  Lines %d-%d of %d\n", rp.offset+1, end, len(rp.lines))
		b.WriteString("  ↑/k: up | ↓/j: down | g: top | G: bottom | q: quit\n")
	}

	return b.String()
}
