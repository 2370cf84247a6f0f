package domain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"testsmith.dev/pkg/testsmith/internal/adapter"
	adaptermocks "testsmith.dev/pkg/testsmith/internal/adapter/mocks"
	m "testsmith.dev/pkg/testsmith/internal/model"
)

func buildSources() []m.SourceFile {
	return []m.SourceFile{
		{Path: "math.h", Content: "int add(int a, int b);\n"},
		{Path: "math.cpp", Content: "#include \"math.h\"\nint add(int a, int b) { return a + b; }\n"},
		{
			Path:    "main.cpp",
			Content: "int main() { return 0; }\n",
			Symbols: []m.ExtractedSymbol{{Kind: m.SymbolFunction, Name: "main", QualifiedName: "main"}},
		},
	}
}

func buildTests() []m.GeneratedTest {
	return []m.GeneratedTest{{Filename: "test_math.cpp", SourceFile: "math.cpp", Content: "TEST(Math, Add) {}\n"}}
}

func readWorkspaceFile(t *testing.T, workDir, rel string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(workDir, rel))
	require.NoError(t, err)

	return string(data)
}

func TestBuildValidator_CMakePass(t *testing.T) {
	tools := adaptermocks.NewMockToolchainAdapter(t)

	var workspace string

	tools.EXPECT().Run(mock.Anything, mock.Anything, DefaultConfigureTimeout, "cmake", "-S", ".", "-B", "build", "-DCMAKE_BUILD_TYPE=Debug").
		RunAndReturn(func(_ context.Context, workDir string, _ time.Duration, _ string, _ ...string) (adapter.ToolResult, error) {
			workspace = workDir

			cmake := readWorkspaceFile(t, workDir, "CMakeLists.txt")
			assert.Contains(t, cmake, "tests/test_math.cpp")
			assert.Contains(t, cmake, "src/math.cpp")
			assert.NotContains(t, cmake, "src/main.cpp")
			assert.Contains(t, cmake, "FetchContent_MakeAvailable(googletest)")
			assert.Contains(t, cmake, "GTest::gtest_main")

			assert.Equal(t, "TEST(Math, Add) {}\n", readWorkspaceFile(t, workDir, "tests/test_math.cpp"))
			assert.Equal(t, "int add(int a, int b);\n", readWorkspaceFile(t, workDir, "src/math.h"))

			return adapter.ToolResult{Output: "-- Configuring done\n"}, nil
		}).Once()
	tools.EXPECT().Run(mock.Anything, mock.Anything, DefaultBuildTimeout, "cmake", "--build", "build", "--parallel", "2").
		Return(adapter.ToolResult{Output: "[100%] Built target test_runner\n"}, nil).Once()

	validator := NewBuildValidator(adapter.NewLocalSourceFSAdapter(), tools, BuildConfig{})
	result, err := validator.Validate(context.Background(), buildSources(), buildTests(), m.FrameworkGoogleTest, 1)

	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Zero(t, result.ExitCode)
	assert.Empty(t, m.ErrorEntries(result.Logs))
	require.Len(t, result.Logs, 2)
	assert.Equal(t, 1, result.Logs[0].Iteration)

	assertRemoved(t, workspace)
}

func assertRemoved(t *testing.T, workspace string) {
	t.Helper()

	require.NotEmpty(t, workspace)

	_, statErr := os.Stat(workspace)
	assert.True(t, os.IsNotExist(statErr), "workspace %s must be removed after the build", workspace)
}

func TestBuildValidator_CompileErrors(t *testing.T) {
	tools := adaptermocks.NewMockToolchainAdapter(t)

	var workspace string

	tools.EXPECT().Run(mock.Anything, mock.Anything, mock.Anything, "cmake", "-S", ".", "-B", "build", "-DCMAKE_BUILD_TYPE=Debug").
		Return(adapter.ToolResult{}, nil).Once()
	tools.EXPECT().Run(mock.Anything, mock.Anything, mock.Anything, "cmake", "--build", "build", "--parallel", "4").
		RunAndReturn(func(_ context.Context, workDir string, _ time.Duration, _ string, _ ...string) (adapter.ToolResult, error) {
			workspace = workDir
			out := fmt.Sprintf("%s/tests/test_math.cpp:12:3: error: undeclared identifier 'sub'\ngmake: *** [all] Error 2\n", workDir)
			return adapter.ToolResult{Output: out, ExitCode: 2}, nil
		}).Once()

	validator := NewBuildValidator(adapter.NewLocalSourceFSAdapter(), tools, BuildConfig{Jobs: 4})
	result, err := validator.Validate(context.Background(), buildSources(), buildTests(), m.FrameworkGoogleTest, 2)

	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.Equal(t, 2, result.ExitCode)

	errs := m.ErrorEntries(result.Logs)
	require.Len(t, errs, 1)
	assert.Equal(t, m.BuildLogEntry{
		Level:     m.LevelError,
		Message:   "undeclared identifier 'sub'",
		File:      "tests/test_math.cpp",
		Line:      12,
		Iteration: 2,
	}, errs[0])

	assertRemoved(t, workspace)
}

func TestBuildValidator_NonZeroExitWithoutDiagnostics(t *testing.T) {
	tools := adaptermocks.NewMockToolchainAdapter(t)

	tools.EXPECT().Run(mock.Anything, mock.Anything, mock.Anything, "cmake", "-S", ".", "-B", "build", "-DCMAKE_BUILD_TYPE=Debug").
		Return(adapter.ToolResult{Output: "something odd\n", ExitCode: 1}, nil).Once()

	validator := NewBuildValidator(adapter.NewLocalSourceFSAdapter(), tools, BuildConfig{})
	result, err := validator.Validate(context.Background(), buildSources(), buildTests(), m.FrameworkGoogleTest, 1)

	require.NoError(t, err)
	assert.False(t, result.Passed)

	errs := m.ErrorEntries(result.Logs)
	require.Len(t, errs, 1)
	assert.Equal(t, "cmake exited with status 1", errs[0].Message)
}

func TestBuildValidator_MissingTool(t *testing.T) {
	tools := &notFoundTools{}
	validator := NewBuildValidator(adapter.NewLocalSourceFSAdapter(), tools, BuildConfig{Toolchain: ToolchainCXX})
	result, err := validator.Validate(context.Background(), buildSources(), buildTests(), m.FrameworkCatch2, 1)

	require.NoError(t, err)
	assert.False(t, result.Passed)

	errs := m.ErrorEntries(result.Logs)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "toolchain invocation failed")
	assert.Contains(t, errs[0].Message, "tool not found")

	require.Len(t, tools.dirs, 1)
	assertRemoved(t, tools.dirs[0])
}

// notFoundTools fails every command as if no toolchain were installed.
type notFoundTools struct {
	calls [][]string
	dirs  []string
}

func (n *notFoundTools) Run(_ context.Context, workDir string, _ time.Duration, name string, args ...string) (adapter.ToolResult, error) {
	n.calls = append(n.calls, append([]string{name}, args...))
	n.dirs = append(n.dirs, workDir)
	return adapter.ToolResult{ExitCode: -1}, fmt.Errorf("%w: %s", adapter.ErrToolNotFound, name)
}

func (n *notFoundTools) LookPath(name string) (string, error) {
	return "", fmt.Errorf("%w: %s", adapter.ErrToolNotFound, name)
}

func TestBuildValidator_CXXCommand(t *testing.T) {
	tools := &notFoundTools{}

	validator := NewBuildValidator(adapter.NewLocalSourceFSAdapter(), tools, BuildConfig{Toolchain: ToolchainCXX, CXX: "g++"})
	_, err := validator.Validate(context.Background(), buildSources(), buildTests(), m.FrameworkDoctest, 1)
	require.NoError(t, err)

	require.Len(t, tools.calls, 1)

	cmd := strings.Join(tools.calls[0], " ")
	assert.True(t, strings.HasPrefix(cmd, "g++ -std=c++17"))
	assert.Contains(t, cmd, "-Isrc")
	assert.Contains(t, cmd, "tests/test_math.cpp src/math.cpp "+doctestMainFile)
	assert.NotContains(t, cmd, "src/main.cpp")
	assert.NotContains(t, cmd, "-lgtest")
}

func TestBuildValidator_RunsTestBinary(t *testing.T) {
	tools := adaptermocks.NewMockToolchainAdapter(t)

	tools.EXPECT().Run(mock.Anything, mock.Anything, mock.Anything, "cmake", "-S", ".", "-B", "build", "-DCMAKE_BUILD_TYPE=Debug").
		Return(adapter.ToolResult{}, nil).Once()
	tools.EXPECT().Run(mock.Anything, mock.Anything, mock.Anything, "cmake", "--build", "build", "--parallel", "2").
		Return(adapter.ToolResult{}, nil).Once()
	tools.EXPECT().Run(mock.Anything, mock.Anything, DefaultRunTimeout, "./build/test_runner").
		Return(adapter.ToolResult{Output: "[  FAILED  ] Math.Add\n", ExitCode: 1}, nil).Once()

	validator := NewBuildValidator(adapter.NewLocalSourceFSAdapter(), tools, BuildConfig{RunTests: true})
	result, err := validator.Validate(context.Background(), buildSources(), buildTests(), m.FrameworkGoogleTest, 1)

	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.Equal(t, 1, result.ExitCode)

	errs := m.ErrorEntries(result.Logs)
	require.Len(t, errs, 1)
	assert.Equal(t, "test_runner exited with status 1", errs[0].Message)
}

func TestBuildValidator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var workspace string

	tools := adaptermocks.NewMockToolchainAdapter(t)
	tools.EXPECT().Run(mock.Anything, mock.Anything, mock.Anything, "cmake", "-S", ".", "-B", "build", "-DCMAKE_BUILD_TYPE=Debug").
		RunAndReturn(func(ctx context.Context, workDir string, _ time.Duration, _ string, _ ...string) (adapter.ToolResult, error) {
			workspace = workDir
			cancel()
			return adapter.ToolResult{ExitCode: -1}, ctx.Err()
		}).Once()

	validator := NewBuildValidator(adapter.NewLocalSourceFSAdapter(), tools, BuildConfig{})
	_, err := validator.Validate(ctx, buildSources(), buildTests(), m.FrameworkGoogleTest, 1)
	require.ErrorIs(t, err, context.Canceled)
	assertRemoved(t, workspace)

	_, err = validator.Validate(ctx, buildSources(), buildTests(), m.FrameworkGoogleTest, 2)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuildValidator_DuplicateTestFilenames(t *testing.T) {
	tools := &notFoundTools{}
	tests := []m.GeneratedTest{
		{Filename: "test_math.cpp", SourceFile: "math.cpp", Content: "TEST(Math, Add) {}\n"},
		{Filename: "unit/test_math.cpp", SourceFile: "math.cpp", Content: "TEST(Math, Other) {}\n"},
	}

	validator := NewBuildValidator(adapter.NewLocalSourceFSAdapter(), tools, BuildConfig{Toolchain: ToolchainCXX})
	result, err := validator.Validate(context.Background(), buildSources(), tests, m.FrameworkGoogleTest, 3)
	require.NoError(t, err)

	require.NotEmpty(t, result.Logs)
	assert.Equal(t, m.LevelWarning, result.Logs[0].Level)
	assert.Equal(t, "unit/test_math.cpp", result.Logs[0].File)
	assert.Contains(t, result.Logs[0].Message, "skipped")
	assert.Equal(t, 3, result.Logs[0].Iteration)

	require.Len(t, tools.calls, 1)
	assert.Equal(t, 1, strings.Count(strings.Join(tools.calls[0], " "), "tests/test_math.cpp"))
}

func TestBuildValidator_WorkspaceFailure(t *testing.T) {
	fs := adaptermocks.NewMockSourceFSAdapter(t)
	fs.EXPECT().CreateTempDir(mock.Anything).Return(m.Path(""), os.ErrPermission).Once()

	validator := NewBuildValidator(fs, adaptermocks.NewMockToolchainAdapter(t), BuildConfig{})
	result, err := validator.Validate(context.Background(), buildSources(), buildTests(), m.FrameworkGoogleTest, 1)

	require.NoError(t, err)
	assert.False(t, result.Passed)
	require.Len(t, result.Logs, 1)
	assert.Contains(t, result.Logs[0].Message, "workspace creation failed")
}

func TestRenderCMake(t *testing.T) {
	layout := workspaceLayout{
		Sources:     []string{"src/math.cpp"},
		Tests:       []string{"tests/test_math.cpp"},
		IncludeDirs: []string{"src"},
		Extra:       []string{doctestMainFile},
	}

	out, err := renderCMake(m.FrameworkDoctest, layout, false)
	require.NoError(t, err)

	cmake := string(out)
	assert.Contains(t, cmake, "find_package(doctest REQUIRED)")
	assert.NotContains(t, cmake, "FetchContent")
	assert.Contains(t, cmake, "  "+doctestMainFile+"\n")
	assert.Contains(t, cmake, "${CMAKE_CURRENT_SOURCE_DIR}/src")
	assert.Contains(t, cmake, "target_link_libraries(test_runner PRIVATE doctest::doctest)")

	_, err = renderCMake(m.TestFramework("boost"), layout, true)
	require.Error(t, err)
}

func TestBuildValidator_Doctor(t *testing.T) {
	tools := adaptermocks.NewMockToolchainAdapter(t)
	tools.EXPECT().LookPath("cmake").Return("/usr/bin/cmake", nil).Once()
	tools.EXPECT().LookPath("c++").Return("", fmt.Errorf("%w: c++", adapter.ErrToolNotFound)).Once()
	tools.EXPECT().LookPath("gcov").Return("/usr/bin/gcov", nil).Once()

	statuses := NewBuildValidator(adapter.NewLocalSourceFSAdapter(), tools, BuildConfig{}).Doctor()

	assert.Equal(t, []m.ToolStatus{
		{Name: "cmake", Path: "/usr/bin/cmake", Found: true, Required: true},
		{Name: "c++", Required: true},
		{Name: "gcov", Path: "/usr/bin/gcov", Found: true},
	}, statuses)
}
