package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrToolNotFound is returned when a toolchain binary is not on PATH.
var ErrToolNotFound = errors.New("tool not found")

// ErrToolTimeout is returned when a toolchain step exceeds its timeout.
var ErrToolTimeout = errors.New("tool timed out")

// pipeWaitDelay bounds how long Run waits for output pipes after the process
// is killed.
const pipeWaitDelay = 2 * time.Second

// ToolResult is the outcome of one toolchain subprocess.
type ToolResult struct {
	Output   string
	ExitCode int
	Duration time.Duration
}

// ToolchainAdapter abstracts subprocess execution for compiler and build tools.
type ToolchainAdapter interface {
	// Run executes name with args in workDir. The process is killed when ctx is
	// cancelled or timeout elapses. A non-zero exit is reported through
	// ToolResult.ExitCode, not as an error.
	Run(ctx context.Context, workDir string, timeout time.Duration, name string, args ...string) (ToolResult, error)

	// LookPath resolves a binary on PATH.
	LookPath(name string) (string, error)
}

// LocalToolchainAdapter runs tools with os/exec.
type LocalToolchainAdapter struct{}

// NewLocalToolchainAdapter constructs a LocalToolchainAdapter.
func NewLocalToolchainAdapter() *LocalToolchainAdapter {
	return &LocalToolchainAdapter{}
}

// Run executes the command and returns its combined stdout/stderr output.
func (a *LocalToolchainAdapter) Run(ctx context.Context, workDir string, timeout time.Duration, name string, args ...string) (ToolResult, error) {
	if _, err := exec.LookPath(name); err != nil {
		return ToolResult{ExitCode: -1}, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// #nosec G204 - the tool name comes from configuration, not from model output
	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Dir = workDir
	cmd.WaitDelay = pipeWaitDelay
	killProcessTree(cmd)

	var out bytes.Buffer

	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	err := cmd.Run()
	result := ToolResult{Output: out.String(), Duration: time.Since(start)}

	if ctxErr := ctx.Err(); ctxErr != nil {
		result.ExitCode = -1
		return result, ctxErr
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		result.ExitCode = -1
		return result, fmt.Errorf("%w: %s after %s", ErrToolTimeout, name, timeout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	if err != nil {
		result.ExitCode = -1
		return result, fmt.Errorf("failed to run %s: %w", name, err)
	}

	return result, nil
}

// LookPath resolves name on PATH.
func (a *LocalToolchainAdapter) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	return path, nil
}
