package model

// Stage names one of the three prompt protocols.
type Stage string

// Prompt stages.
const (
	StageInitialGeneration Stage = "initial_generation"
	StageRefinement        Stage = "refinement"
	StageBuildFix          Stage = "build_fix"
)

// Prompt is a rendered request to the model.
type Prompt struct {
	Stage  Stage
	System string
	User   string
}

// Text flattens the prompt for providers without a separate system channel.
func (p Prompt) Text() string {
	if p.System == "" {
		return p.User
	}

	return p.System + "\n\n" + p.User
}

// GeneratedTest is one test file produced by the model. Later stages supersede
// a GeneratedTest with a new value instead of mutating it.
type GeneratedTest struct {
	Filename         string   `json:"filename"`
	Content          string   `json:"content"`
	SourceFile       string   `json:"source_file"`
	FunctionsTested  []string `json:"functions_tested"`
	CoverageEstimate float64  `json:"coverage_estimate"`
}

// TestRevision records a superseding step of the generated test set.
type TestRevision struct {
	Iteration int
	Stage     Stage
	Previous  []GeneratedTest
	Current   []GeneratedTest
}
