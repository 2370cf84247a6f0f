package model

import "time"

// LogLevel is the severity of a build log entry.
type LogLevel string

// Severity levels.
const (
	LevelInfo    LogLevel = "info"
	LevelWarning LogLevel = "warning"
	LevelError   LogLevel = "error"
)

// BuildLogEntry is one diagnostic. Entries are immutable once produced.
type BuildLogEntry struct {
	Level     LogLevel `json:"level"`
	Message   string   `json:"message"`
	File      string   `json:"file,omitempty"`
	Line      int      `json:"line,omitempty"`
	Iteration int      `json:"iteration,omitempty"`
}

// ErrorEntries returns the entries with LevelError, preserving order.
func ErrorEntries(entries []BuildLogEntry) []BuildLogEntry {
	var out []BuildLogEntry

	for _, e := range entries {
		if e.Level == LevelError {
			out = append(out, e)
		}
	}

	return out
}

// CoverageReport is the static coverage estimate of one iteration.
type CoverageReport struct {
	OverallCoverage  float64            `json:"overall_coverage"`
	FileCoverage     map[string]float64 `json:"file_coverage"`
	FunctionCoverage map[string]float64 `json:"function_coverage"`
	LinesCovered     int                `json:"lines_covered"`
	TotalLines       int                `json:"total_lines"`
	CoveredSymbols   int                `json:"covered_symbols"`
	TotalSymbols     int                `json:"total_symbols"`
	Uncovered        []ExtractedSymbol  `json:"uncovered,omitempty"`
}

// ResponseStatus is the outward-facing result classification.
type ResponseStatus string

// Response statuses.
const (
	ResponseSuccess ResponseStatus = "success"
	ResponseError   ResponseStatus = "error"
	ResponsePartial ResponseStatus = "partial"
)

// TestGenerationResponse is the final outcome of a run.
type TestGenerationResponse struct {
	ProjectID      string          `json:"project_id"`
	Status         ResponseStatus  `json:"status"`
	RunStatus      Status          `json:"run_status"`
	GeneratedTests []GeneratedTest `json:"generated_tests"`
	CoverageReport *CoverageReport `json:"coverage_report,omitempty"`
	BuildLogs      []BuildLogEntry `json:"build_logs"`
	Error          string          `json:"error,omitempty"`
	Iterations     int             `json:"iterations"`
	BuildFixesUsed int             `json:"build_fixes_used"`
	RefinesUsed    int             `json:"refinements_used"`
	StartedAt      time.Time       `json:"started_at"`
	FinishedAt     time.Time       `json:"finished_at"`
}

// RunSnapshot is the state of the last fully completed iteration.
type RunSnapshot struct {
	Iteration      int             `json:"iteration"`
	Status         Status          `json:"status"`
	Passed         bool            `json:"passed"`
	GeneratedTests []GeneratedTest `json:"generated_tests"`
	CoverageReport CoverageReport  `json:"coverage_report"`
	BuildLogs      []BuildLogEntry `json:"build_logs"`
	BuildFixesUsed int             `json:"build_fixes_used"`
	RefinesUsed    int             `json:"refinements_used"`
}

// ProjectStatus answers a status query for a project.
type ProjectStatus struct {
	ProjectID string                  `json:"project_id"`
	Status    Status                  `json:"status"`
	Active    bool                    `json:"active"`
	Files     []string                `json:"files"`
	Symbols   int                     `json:"symbols"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
	Last      *RunSnapshot            `json:"last,omitempty"`
	Result    *TestGenerationResponse `json:"result,omitempty"`
}

// ToolStatus reports the availability of one toolchain binary.
type ToolStatus struct {
	Name     string `json:"name"`
	Path     string `json:"path,omitempty"`
	Found    bool   `json:"found"`
	Required bool   `json:"required"`
}
