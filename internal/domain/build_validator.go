package domain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"text/template"
	"time"

	"testsmith.dev/pkg/testsmith/internal/adapter"
	m "testsmith.dev/pkg/testsmith/internal/model"
)

// Toolchain modes.
const (
	ToolchainCMake = "cmake"
	ToolchainCXX   = "cxx"
)

// Default step timeouts.
const (
	DefaultConfigureTimeout = 60 * time.Second
	DefaultBuildTimeout     = 120 * time.Second
	DefaultRunTimeout       = 30 * time.Second
)

// BuildConfig selects and tunes the toolchain.
type BuildConfig struct {
	Toolchain        string
	CMake            string
	CXX              string
	Jobs             int
	FetchDeps        bool
	RunTests         bool
	ConfigureTimeout time.Duration
	BuildTimeout     time.Duration
	RunTimeout       time.Duration
}

// DefaultBuildConfig returns the cmake toolchain with FetchContent dependencies.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		Toolchain:        ToolchainCMake,
		CMake:            "cmake",
		CXX:              "c++",
		Jobs:             2,
		FetchDeps:        true,
		ConfigureTimeout: DefaultConfigureTimeout,
		BuildTimeout:     DefaultBuildTimeout,
		RunTimeout:       DefaultRunTimeout,
	}
}

// BuildResult is the outcome of one validation attempt.
type BuildResult struct {
	Passed   bool
	ExitCode int
	Logs     []m.BuildLogEntry
	Duration time.Duration
}

// BuildValidator compiles generated tests against the project sources.
type BuildValidator interface {
	// Validate materializes a fresh workspace, builds it, and removes it. The
	// only error returned is ctx's, when the attempt was cancelled.
	Validate(ctx context.Context, sources []m.SourceFile, tests []m.GeneratedTest, framework m.TestFramework, iteration int) (BuildResult, error)
	Doctor() []m.ToolStatus
}

type buildValidator struct {
	fs     adapter.SourceFSAdapter
	tools  adapter.ToolchainAdapter
	config BuildConfig
}

// NewBuildValidator constructs a BuildValidator.
func NewBuildValidator(fs adapter.SourceFSAdapter, tools adapter.ToolchainAdapter, config BuildConfig) BuildValidator {
	defaults := DefaultBuildConfig()

	if config.Toolchain == "" {
		config.Toolchain = defaults.Toolchain
	}

	if config.CMake == "" {
		config.CMake = defaults.CMake
	}

	if config.CXX == "" {
		config.CXX = defaults.CXX
	}

	if config.Jobs <= 0 {
		config.Jobs = defaults.Jobs
	}

	if config.ConfigureTimeout <= 0 {
		config.ConfigureTimeout = defaults.ConfigureTimeout
	}

	if config.BuildTimeout <= 0 {
		config.BuildTimeout = defaults.BuildTimeout
	}

	if config.RunTimeout <= 0 {
		config.RunTimeout = defaults.RunTimeout
	}

	return &buildValidator{fs: fs, tools: tools, config: config}
}

func (v *buildValidator) Validate(ctx context.Context, sources []m.SourceFile, tests []m.GeneratedTest, framework m.TestFramework, iteration int) (BuildResult, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return BuildResult{}, err
	}

	workspace, err := v.fs.CreateTempDir("testsmith-build-*")
	if err != nil {
		slog.Error("Failed to create build workspace", "error", err)
		return failedBuild(iteration, fmt.Sprintf("workspace creation failed: %v", err), start), nil
	}

	defer v.cleanup(workspace)

	layout, err := v.materialize(workspace, sources, tests, framework)
	if err != nil {
		slog.Error("Failed to materialize build workspace", "workspace", workspace, "error", err)
		return failedBuild(iteration, fmt.Sprintf("workspace setup failed: %v", err), start), nil
	}

	result := BuildResult{Passed: true}

	for _, name := range layout.Skipped {
		slog.Warn("Duplicate generated test file skipped", "file", name)
		result.Logs = append(result.Logs, m.BuildLogEntry{
			Level:     m.LevelWarning,
			Message:   fmt.Sprintf("generated test %s skipped: another test already uses file %s", name, testFileName(name)),
			File:      name,
			Iteration: iteration,
		})
	}

	var steps [][]string

	switch v.config.Toolchain {
	case ToolchainCXX:
		steps = [][]string{v.cxxCommand(layout, framework)}
	default:
		steps = [][]string{
			{v.config.CMake, "-S", ".", "-B", "build", "-DCMAKE_BUILD_TYPE=Debug"},
			{v.config.CMake, "--build", "build", "--parallel", fmt.Sprint(v.config.Jobs)},
		}
	}

	timeouts := []time.Duration{v.config.ConfigureTimeout, v.config.BuildTimeout}

	for i, step := range steps {
		limit := v.config.BuildTimeout
		if len(steps) > 1 {
			limit = timeouts[i]
		}

		ok, err := v.runStep(ctx, workspace, limit, step, iteration, &result)
		if err != nil {
			return BuildResult{}, err
		}

		if !ok {
			break
		}
	}

	if result.Passed && v.config.RunTests {
		binary := "./build/test_runner"
		if v.config.Toolchain == ToolchainCXX {
			binary = "./test_runner"
		}

		if _, err := v.runStep(ctx, workspace, v.config.RunTimeout, []string{binary}, iteration, &result); err != nil {
			return BuildResult{}, err
		}
	}

	result.Duration = time.Since(start)

	return result, nil
}

// runStep executes one command, appending its diagnostics to result. It
// returns false when the build cannot continue.
func (v *buildValidator) runStep(ctx context.Context, workspace m.Path, limit time.Duration, step []string, iteration int, result *BuildResult) (bool, error) {
	out, err := v.tools.Run(ctx, string(workspace), limit, step[0], step[1:]...)
	result.Logs = append(result.Logs, ParseDiagnostics(out.Output, string(workspace), iteration)...)
	result.ExitCode = out.ExitCode

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}

		result.Passed = false
		result.Logs = append(result.Logs, m.BuildLogEntry{
			Level:     m.LevelError,
			Message:   fmt.Sprintf("toolchain invocation failed: %v", err),
			Iteration: iteration,
		})

		return false, nil
	}

	if out.ExitCode != 0 {
		result.Passed = false

		if len(m.ErrorEntries(result.Logs)) == 0 {
			result.Logs = append(result.Logs, m.BuildLogEntry{
				Level:     m.LevelError,
				Message:   fmt.Sprintf("%s exited with status %d", path.Base(step[0]), out.ExitCode),
				Iteration: iteration,
			})
		}

		return false, nil
	}

	if len(m.ErrorEntries(result.Logs)) > 0 {
		result.Passed = false
		return false, nil
	}

	return true, nil
}

func failedBuild(iteration int, msg string, start time.Time) BuildResult {
	return BuildResult{
		Passed:   false,
		ExitCode: -1,
		Logs:     []m.BuildLogEntry{{Level: m.LevelError, Message: msg, Iteration: iteration}},
		Duration: time.Since(start),
	}
}

func (v *buildValidator) cleanup(workspace m.Path) {
	if err := v.fs.RemoveAll(workspace); err != nil {
		slog.Error("Failed to cleanup build workspace", "workspace", workspace, "error", err)
	}
}

// workspaceLayout lists the workspace-relative files of one build.
type workspaceLayout struct {
	Sources     []string
	Tests       []string
	IncludeDirs []string
	Extra       []string
	// Skipped holds generated test filenames dropped because an earlier test
	// already used the same basename.
	Skipped []string
}

func (v *buildValidator) materialize(workspace m.Path, sources []m.SourceFile, tests []m.GeneratedTest, framework m.TestFramework) (workspaceLayout, error) {
	var layout workspaceLayout

	dirs := map[string]bool{"src": true}

	for _, src := range sources {
		rel := path.Join("src", path.Clean("/" + src.Path)[1:])
		if err := v.fs.WriteFile(v.fs.JoinPath(string(workspace), rel), []byte(src.Content), 0o600); err != nil {
			return layout, fmt.Errorf("write source %s: %w", src.Path, err)
		}

		dirs[path.Dir(rel)] = true

		if !src.IsHeader() && !definesMain(src) {
			layout.Sources = append(layout.Sources, rel)
		}
	}

	seen := map[string]bool{}

	for _, t := range tests {
		name := testFileName(t.Filename)
		if seen[name] {
			layout.Skipped = append(layout.Skipped, t.Filename)
			continue
		}

		seen[name] = true
		rel := path.Join("tests", name)

		if err := v.fs.WriteFile(v.fs.JoinPath(string(workspace), rel), []byte(t.Content), 0o600); err != nil {
			return layout, fmt.Errorf("write test %s: %w", name, err)
		}

		layout.Tests = append(layout.Tests, rel)
	}

	if framework == m.FrameworkDoctest {
		if err := v.fs.WriteFile(v.fs.JoinPath(string(workspace), doctestMainFile), []byte(doctestMain), 0o600); err != nil {
			return layout, fmt.Errorf("write doctest main: %w", err)
		}

		layout.Extra = append(layout.Extra, doctestMainFile)
	}

	for dir := range dirs {
		layout.IncludeDirs = append(layout.IncludeDirs, dir)
	}

	sort.Strings(layout.IncludeDirs)

	if v.config.Toolchain != ToolchainCXX {
		cmake, err := renderCMake(framework, layout, v.config.FetchDeps)
		if err != nil {
			return layout, err
		}

		if err := v.fs.WriteFile(v.fs.JoinPath(string(workspace), "CMakeLists.txt"), cmake, 0o600); err != nil {
			return layout, fmt.Errorf("write CMakeLists.txt: %w", err)
		}
	}

	return layout, nil
}

func definesMain(src m.SourceFile) bool {
	for _, sym := range src.Symbols {
		if sym.Kind == m.SymbolFunction && sym.QualifiedName == "main" {
			return true
		}
	}

	return false
}

func testFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if ext := path.Ext(name); ext != ".cpp" && ext != ".cc" && ext != ".cxx" {
		name += ".cpp"
	}

	return name
}

func (v *buildValidator) cxxCommand(layout workspaceLayout, framework m.TestFramework) []string {
	args := []string{v.config.CXX, "-std=c++17", "-g", "--coverage", "-o", "test_runner"}

	for _, dir := range layout.IncludeDirs {
		args = append(args, "-I"+dir)
	}

	args = append(args, layout.Tests...)
	args = append(args, layout.Sources...)
	args = append(args, layout.Extra...)

	switch framework {
	case m.FrameworkGoogleTest:
		args = append(args, "-lgmock", "-lgtest_main", "-lgtest")
	case m.FrameworkCatch2:
		args = append(args, "-lCatch2Main", "-lCatch2")
	case m.FrameworkDoctest:
	}

	return append(args, "-pthread")
}

const doctestMainFile = "testsmith_doctest_main.cpp"

const doctestMain = "#define DOCTEST_CONFIG_IMPLEMENT_WITH_MAIN\n#include <doctest/doctest.h>\n"

type frameworkBuild struct {
	Fetch   string
	Package string
	Link    string
}

var frameworkBuilds = map[m.TestFramework]frameworkBuild{
	m.FrameworkGoogleTest: {
		Fetch: `FetchContent_Declare(googletest
  URL https://github.com/google/googletest/archive/refs/tags/v1.14.0.zip)
set(gtest_force_shared_crt ON CACHE BOOL "" FORCE)
set(INSTALL_GTEST OFF CACHE BOOL "" FORCE)
FetchContent_MakeAvailable(googletest)`,
		Package: "find_package(GTest REQUIRED)",
		Link:    "GTest::gtest_main GTest::gmock",
	},
	m.FrameworkCatch2: {
		Fetch: `FetchContent_Declare(Catch2
  GIT_REPOSITORY https://github.com/catchorg/Catch2.git
  GIT_TAG v3.5.2)
FetchContent_MakeAvailable(Catch2)`,
		Package: "find_package(Catch2 3 REQUIRED)",
		Link:    "Catch2::Catch2WithMain",
	},
	m.FrameworkDoctest: {
		Fetch: `FetchContent_Declare(doctest
  GIT_REPOSITORY https://github.com/doctest/doctest.git
  GIT_TAG v2.4.11)
FetchContent_MakeAvailable(doctest)`,
		Package: "find_package(doctest REQUIRED)",
		Link:    "doctest::doctest",
	},
}

var cmakeTemplate = template.Must(template.New("cmake").Parse(`cmake_minimum_required(VERSION 3.14)
project(testsmith_tests CXX)

set(CMAKE_CXX_STANDARD 17)
set(CMAKE_CXX_STANDARD_REQUIRED ON)
set(CMAKE_CXX_FLAGS "${CMAKE_CXX_FLAGS} --coverage")
set(CMAKE_EXE_LINKER_FLAGS "${CMAKE_EXE_LINKER_FLAGS} --coverage")

{{if .FetchDeps}}include(FetchContent)
{{.Framework.Fetch}}{{else}}{{.Framework.Package}}{{end}}

add_executable(test_runner
{{- range .Layout.Tests}}
  {{.}}
{{- end}}
{{- range .Layout.Sources}}
  {{.}}
{{- end}}
{{- range .Layout.Extra}}
  {{.}}
{{- end}}
)
target_include_directories(test_runner PRIVATE
{{- range .Layout.IncludeDirs}}
  ${CMAKE_CURRENT_SOURCE_DIR}/{{.}}
{{- end}}
)
target_link_libraries(test_runner PRIVATE {{.Framework.Link}})

enable_testing()
add_test(NAME test_runner COMMAND test_runner)
`))

func renderCMake(framework m.TestFramework, layout workspaceLayout, fetch bool) ([]byte, error) {
	fb, ok := frameworkBuilds[framework]
	if !ok {
		return nil, fmt.Errorf("unsupported framework %q", framework)
	}

	var buf bytes.Buffer

	err := cmakeTemplate.Execute(&buf, struct {
		Framework frameworkBuild
		Layout    workspaceLayout
		FetchDeps bool
	}{fb, layout, fetch})
	if err != nil {
		return nil, fmt.Errorf("render CMakeLists.txt: %w", err)
	}

	return buf.Bytes(), nil
}

func (v *buildValidator) Doctor() []m.ToolStatus {
	checks := []m.ToolStatus{
		{Name: v.config.CXX, Required: true},
		{Name: "gcov"},
	}

	if v.config.Toolchain != ToolchainCXX {
		checks = append([]m.ToolStatus{{Name: v.config.CMake, Required: true}}, checks...)
	}

	for i := range checks {
		p, err := v.tools.LookPath(checks[i].Name)
		if err != nil {
			if !errors.Is(err, adapter.ErrToolNotFound) {
				slog.Warn("Failed to look up tool", "tool", checks[i].Name, "error", err)
			}

			continue
		}

		checks[i].Path = p
		checks[i].Found = true
	}

	return checks
}
