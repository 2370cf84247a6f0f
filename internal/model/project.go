package model

import "time"

// Status is the orchestration state of a project's current or last run.
type Status string

// Run states. Succeeded and Failed are terminal.
const (
	StatusQueued      Status = "queued"
	StatusAnalyzing   Status = "analyzing"
	StatusGenerating  Status = "generating"
	StatusBuilding    Status = "building"
	StatusRefining    Status = "refining"
	StatusBuildFixing Status = "build_fixing"
	StatusSucceeded   Status = "succeeded"
	StatusFailed      Status = "failed"
)

// Terminal reports whether no further transitions happen from s.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Active reports whether a run in state s owns the project's workspace.
func (s Status) Active() bool {
	switch s {
	case StatusAnalyzing, StatusGenerating, StatusBuilding, StatusRefining, StatusBuildFixing:
		return true
	case StatusQueued, StatusSucceeded, StatusFailed:
		return false
	}

	return false
}

// Project is one uploaded source set plus its generation history.
type Project struct {
	ID        string       `json:"project_id"`
	Name      string       `json:"name,omitempty"`
	Files     []SourceFile `json:"files"`
	Status    Status       `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Workspace Path         `json:"workspace,omitempty"`
}

// FilePaths returns the relative paths of the project's files in upload order.
func (p *Project) FilePaths() []string {
	paths := make([]string, 0, len(p.Files))
	for _, f := range p.Files {
		paths = append(paths, f.Path)
	}

	return paths
}
