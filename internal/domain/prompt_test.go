package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	m "testsmith.dev/pkg/testsmith/internal/model"
)

func promptProject() m.Project {
	return m.Project{
		ID: "p-1",
		Files: []m.SourceFile{{
			Path:    "math.cpp",
			Content: "int add(int a, int b) { return a + b; }\nint subtract(int a, int b) { return a - b; }\n",
			Symbols: []m.ExtractedSymbol{
				{Kind: m.SymbolFunction, Name: "add", QualifiedName: "add", Signature: "(int a, int b)", ReturnType: "int", Span: m.Span{File: "math.cpp", StartLine: 1, EndLine: 1}},
				{Kind: m.SymbolFunction, Name: "subtract", QualifiedName: "subtract", Signature: "(int a, int b)", ReturnType: "int", Span: m.Span{File: "math.cpp", StartLine: 2, EndLine: 2}},
			},
		}},
	}
}

// instructionBlock decodes the YAML instructions embedded in a system prompt.
func instructionBlock(t *testing.T, system string) instructions {
	t.Helper()

	_, rest, found := strings.Cut(system, "Instructions:\n")
	require.True(t, found)

	block, _, found := strings.Cut(rest, "\nReturn every test file")
	require.True(t, found)

	var ins instructions
	require.NoError(t, yaml.Unmarshal([]byte(block), &ins))

	return ins
}

func TestPromptBuilder_Initial(t *testing.T) {
	req := m.DefaultGenerationRequest()
	req.Framework = m.FrameworkCatch2
	req.IncludeIntegrationTests = true

	prompt := NewPromptBuilder().Build(m.StageInitialGeneration, promptProject(), req, PromptContext{})

	assert.Equal(t, m.StageInitialGeneration, prompt.Stage)
	assert.Contains(t, prompt.System, TestFileStart)
	assert.Contains(t, prompt.System, TestFileEnd)
	assert.Contains(t, prompt.User, "=== math.cpp ===\nint add(int a, int b)")
	assert.Contains(t, prompt.User, "SYMBOLS:\nmath.cpp:\n- int add(int a, int b)\n- int subtract(int a, int b)\n")

	ins := instructionBlock(t, prompt.System)
	assert.Equal(t, "expert_cpp_tester", ins.Role)
	assert.Equal(t, "Catch2", ins.Framework)
	assert.InDelta(t, 0.8, ins.CoverageTarget, 1e-9)
	assert.True(t, ins.GenerateMocks)
	assert.True(t, ins.Integration)
	assert.Contains(t, ins.FrameworkRules, "#include <catch2/catch_test_macros.hpp>")
	assert.Contains(t, ins.Requirements, "Add integration tests that exercise several symbols together")
}

func TestPromptBuilder_Refinement(t *testing.T) {
	project := promptProject()
	coverage := m.CoverageReport{OverallCoverage: 0.5, FileCoverage: map[string]float64{"math.cpp": 0.5}}

	prompt := NewPromptBuilder().Build(m.StageRefinement, project, m.DefaultGenerationRequest(), PromptContext{
		Tests:     []m.GeneratedTest{{Filename: "test_math.cpp", Content: "TEST(Math, Add) {}\n"}},
		Coverage:  &coverage,
		Uncovered: project.Files[0].Symbols[1:],
	})

	assert.Equal(t, m.StageRefinement, prompt.Stage)
	assert.Contains(t, prompt.User, "EXISTING TESTS:\n=== test_math.cpp ===\nTEST(Math, Add) {}\n")
	assert.Contains(t, prompt.User, "overall: 0.50\nmath.cpp: 0.50\n")
	assert.Contains(t, prompt.User, "UNCOVERED SYMBOLS:\n- int subtract(int a, int b) (math.cpp)\n")
	assert.Equal(t, "code_reviewer", instructionBlock(t, prompt.System).Role)
}

func TestPromptBuilder_BuildFix(t *testing.T) {
	prompt := NewPromptBuilder().Build(m.StageBuildFix, promptProject(), m.DefaultGenerationRequest(), PromptContext{
		Tests: []m.GeneratedTest{{Filename: "test_math.cpp", Content: "TEST(Math, Add) { undeclared(); }\n"}},
		Errors: []m.BuildLogEntry{
			{Level: m.LevelError, Message: "undeclared identifier", File: "test_math.cpp", Line: 12},
			{Level: m.LevelWarning, Message: "unused variable", File: "test_math.cpp", Line: 3},
			{Level: m.LevelError, Message: "collect2: ld returned 1 exit status"},
		},
	})

	assert.Equal(t, m.StageBuildFix, prompt.Stage)
	assert.Contains(t, prompt.User, "BUILD ERRORS:\ntest_math.cpp:12: undeclared identifier\ncollect2: ld returned 1 exit status\n")
	assert.NotContains(t, prompt.User, "unused variable")

	ins := instructionBlock(t, prompt.System)
	assert.Equal(t, "cpp_build_engineer", ins.Role)
	assert.Zero(t, ins.CoverageTarget)
}

func TestPromptBuilder_IsPure(t *testing.T) {
	builder := NewPromptBuilder()
	project := promptProject()
	req := m.DefaultGenerationRequest()

	first := builder.Build(m.StageInitialGeneration, project, req, PromptContext{})
	second := builder.Build(m.StageInitialGeneration, project, req, PromptContext{})

	assert.Equal(t, first, second)
	assert.Equal(t, promptProject(), project)
}

func TestPromptBuilder_UnknownStagePanics(t *testing.T) {
	assert.Panics(t, func() {
		NewPromptBuilder().Build(m.Stage("bogus"), promptProject(), m.DefaultGenerationRequest(), PromptContext{})
	})
}
