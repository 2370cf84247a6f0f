package domain

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	m "testsmith.dev/pkg/testsmith/internal/model"
)

// Markers delimiting one test file in a model response.
const (
	TestFileStart = "===TEST_FILE_START==="
	TestFileEnd   = "===TEST_FILE_END==="
)

// PromptContext carries the prior artifacts a refinement or build-fix prompt
// is rendered from. The initial stage ignores it.
type PromptContext struct {
	Tests     []m.GeneratedTest
	Coverage  *m.CoverageReport
	Uncovered []m.ExtractedSymbol
	Errors    []m.BuildLogEntry
}

// PromptBuilder renders a stage prompt. It never mutates its inputs.
type PromptBuilder interface {
	Build(stage m.Stage, project m.Project, req m.GenerationRequest, pctx PromptContext) m.Prompt
}

type promptBuilder struct{}

// NewPromptBuilder returns the default PromptBuilder.
func NewPromptBuilder() PromptBuilder {
	return promptBuilder{}
}

// instructions is the YAML instruction block embedded in every system prompt.
type instructions struct {
	Role           string   `yaml:"role"`
	Task           string   `yaml:"task"`
	Framework      string   `yaml:"framework"`
	Standard       string   `yaml:"standard"`
	Requirements   []string `yaml:"requirements"`
	FrameworkRules []string `yaml:"framework_rules,omitempty"`
	CoverageTarget float64  `yaml:"coverage_target,omitempty"`
	GenerateMocks  bool     `yaml:"generate_mocks"`
	Integration    bool     `yaml:"include_integration_tests"`
	OutputFormat   string   `yaml:"output_format"`
}

func (promptBuilder) Build(stage m.Stage, project m.Project, req m.GenerationRequest, pctx PromptContext) m.Prompt {
	switch stage {
	case m.StageInitialGeneration:
		return initialPrompt(project, req)
	case m.StageRefinement:
		return refinementPrompt(project, req, pctx)
	case m.StageBuildFix:
		return buildFixPrompt(project, req, pctx)
	}

	panic(fmt.Sprintf("prompt builder: unknown stage %q", stage))
}

func baseInstructions(role, task string, req m.GenerationRequest) instructions {
	return instructions{
		Role:           role,
		Task:           task,
		Framework:      req.Framework.DisplayName(),
		Standard:       "c++17",
		FrameworkRules: frameworkRules(req.Framework),
		GenerateMocks:  req.GenerateMocks,
		Integration:    req.IncludeIntegrationTests,
		OutputFormat:   "cpp_test_files",
	}
}

func frameworkRules(f m.TestFramework) []string {
	switch f {
	case m.FrameworkGoogleTest:
		return []string{
			"#include <gtest/gtest.h>",
			"Use TEST(Suite, Name) and TEST_F for fixtures",
			"Prefer EXPECT_* over ASSERT_* unless later checks depend on the result",
			"Do not define main; the build links gtest_main",
		}
	case m.FrameworkCatch2:
		return []string{
			"#include <catch2/catch_test_macros.hpp>",
			"Use TEST_CASE(\"name\", \"[tag]\") with SECTION blocks",
			"Use REQUIRE for preconditions and CHECK for independent assertions",
			"Do not define main; the build links Catch2WithMain",
		}
	case m.FrameworkDoctest:
		return []string{
			"#include <doctest/doctest.h>",
			"Use TEST_CASE(\"name\") with SUBCASE blocks",
			"Use CHECK and REQUIRE assertions",
			"Do not define main or DOCTEST_CONFIG_IMPLEMENT_WITH_MAIN; the build provides it",
		}
	}

	return nil
}

func initialPrompt(project m.Project, req m.GenerationRequest) m.Prompt {
	ins := baseInstructions("expert_cpp_tester", "generate_unit_tests", req)
	ins.CoverageTarget = req.CoverageThreshold
	ins.Requirements = []string{
		"Generate unit tests for every public symbol listed under SYMBOLS",
		"Produce one self-contained, compilable test file per source file",
		"Include edge cases and boundary conditions",
		"Create tests for both success and failure scenarios",
		"Include every header the tests need",
	}

	if req.GenerateMocks {
		ins.Requirements = append(ins.Requirements, "Mock collaborators behind interfaces where a dependency is not under test")
	}

	if req.IncludeIntegrationTests {
		ins.Requirements = append(ins.Requirements, "Add integration tests that exercise several symbols together")
	}

	var user strings.Builder

	user.WriteString("SOURCE CODE:\n")
	writeSources(&user, project.Files)
	user.WriteString("\nSYMBOLS:\n")
	writeSymbols(&user, project.Files)

	return m.Prompt{
		Stage:  m.StageInitialGeneration,
		System: systemText("You are an expert C++ developer specializing in unit testing.", ins),
		User:   user.String(),
	}
}

func refinementPrompt(project m.Project, req m.GenerationRequest, pctx PromptContext) m.Prompt {
	ins := baseInstructions("code_reviewer", "refine_unit_tests", req)
	ins.CoverageTarget = req.CoverageThreshold
	ins.Requirements = []string{
		"Add tests only for the symbols listed under UNCOVERED SYMBOLS",
		"Keep every existing test; do not remove or weaken passing assertions",
		"Return each test file you change in full",
		"List every symbol a file exercises in its covers header",
	}

	var user strings.Builder

	user.WriteString("EXISTING TESTS:\n")
	writeTests(&user, pctx.Tests)

	if pctx.Coverage != nil {
		fmt.Fprintf(&user, "\nCOVERAGE REPORT:\noverall: %.2f\n", pctx.Coverage.OverallCoverage)

		for _, f := range project.Files {
			if cov, ok := pctx.Coverage.FileCoverage[f.Path]; ok {
				fmt.Fprintf(&user, "%s: %.2f\n", f.Path, cov)
			}
		}
	}

	user.WriteString("\nUNCOVERED SYMBOLS:\n")

	for _, sym := range pctx.Uncovered {
		fmt.Fprintf(&user, "- %s (%s)\n", sym.Declaration(), sym.Span.File)
	}

	user.WriteString("\nSOURCE CODE:\n")
	writeSources(&user, project.Files)

	return m.Prompt{
		Stage:  m.StageRefinement,
		System: systemText("You are a senior code reviewer specializing in C++ testing.", ins),
		User:   user.String(),
	}
}

func buildFixPrompt(project m.Project, req m.GenerationRequest, pctx PromptContext) m.Prompt {
	ins := baseInstructions("cpp_build_engineer", "fix_build_errors", req)
	ins.Requirements = []string{
		"Fix only the diagnostics listed under BUILD ERRORS",
		"Preserve the intent of every existing test",
		"Do not modify the source files; change the tests only",
		"Return each test file you change in full",
	}

	var user strings.Builder

	user.WriteString("SOURCE FILES:\n")
	writeSources(&user, project.Files)
	user.WriteString("\nTEST FILES:\n")
	writeTests(&user, pctx.Tests)
	user.WriteString("\nBUILD ERRORS:\n")

	for _, e := range m.ErrorEntries(pctx.Errors) {
		if e.File != "" {
			fmt.Fprintf(&user, "%s:%d: %s\n", e.File, e.Line, e.Message)
		} else {
			fmt.Fprintf(&user, "%s\n", e.Message)
		}
	}

	return m.Prompt{
		Stage:  m.StageBuildFix,
		System: systemText("You are a C++ build engineer fixing compilation errors in unit tests.", ins),
		User:   user.String(),
	}
}

func systemText(intro string, ins instructions) string {
	block, err := yaml.Marshal(ins)
	if err != nil {
		// A plain struct of strings and slices always marshals.
		panic(fmt.Sprintf("prompt builder: marshal instructions: %v", err))
	}

	var b strings.Builder

	b.WriteString(intro)
	b.WriteString("\n\nInstructions:\n")
	b.Write(block)
	b.WriteString("\nReturn every test file in the following format:\n")
	b.WriteString(TestFileStart + "\n")
	b.WriteString("filename: test_<source basename>.cpp\n")
	b.WriteString("source: <source file path>\n")
	b.WriteString("covers: <comma separated qualified names>\n")
	b.WriteString("content:\n<test code>\n")
	b.WriteString(TestFileEnd + "\n")

	return b.String()
}

func writeSources(b *strings.Builder, files []m.SourceFile) {
	for _, f := range files {
		fmt.Fprintf(b, "=== %s ===\n%s\n\n", f.Path, strings.TrimRight(f.Content, "\n"))
	}
}

func writeTests(b *strings.Builder, tests []m.GeneratedTest) {
	for _, t := range tests {
		fmt.Fprintf(b, "=== %s ===\n%s\n\n", t.Filename, strings.TrimRight(t.Content, "\n"))
	}
}

func writeSymbols(b *strings.Builder, files []m.SourceFile) {
	for _, f := range files {
		symbols := f.CallableSymbols()
		if len(symbols) == 0 {
			continue
		}

		fmt.Fprintf(b, "%s:\n", f.Path)

		for _, sym := range symbols {
			fmt.Fprintf(b, "- %s\n", sym.Declaration())
		}
	}
}
