package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"testsmith.dev/pkg/testsmith/internal/adapter"
	"testsmith.dev/pkg/testsmith/internal/controller"
	m "testsmith.dev/pkg/testsmith/internal/model"
)

// Workflow errors.
var (
	ErrGenerationFailed = errors.New("test generation failed")
	ErrToolchainMissing = errors.New("required toolchain binaries are missing")
)

// testsDirName is where --write places generated tests, relative to a project directory.
const testsDirName = "tests"

// GenerateArgs contains the arguments of a generate invocation.
type GenerateArgs struct {
	Paths   []m.Path
	Request m.GenerationRequest
	// Write stores the final tests under <dir>/tests.
	Write bool
}

// Workflow wires the CLI commands to the engine and the UI.
type Workflow interface {
	Analyze(ctx context.Context, paths []m.Path) error
	Generate(ctx context.Context, args GenerateArgs) error
	Show(ctx context.Context, projectID string) error
	Doctor(ctx context.Context) error
}

type workflow struct {
	fs        adapter.SourceFSAdapter
	store     adapter.ReportStore
	ui        controller.UI
	analyzer  Analyzer
	validator BuildValidator
	engine    *Engine
}

// NewWorkflow creates a Workflow with the provided dependencies. store may be
// nil, in which case Show is unavailable.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
	analyzer Analyzer,
	validator BuildValidator,
	engine *Engine,
) Workflow {
	return &workflow{
		fs:        fsAdapter,
		store:     reportStore,
		ui:        ui,
		analyzer:  analyzer,
		validator: validator,
		engine:    engine,
	}
}

func (w *workflow) Analyze(ctx context.Context, paths []m.Path) error {
	if err := w.ui.Start(ctx, controller.WithReportMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}
	defer w.ui.Close(ctx)

	for _, dir := range defaultPaths(paths) {
		files, err := adapter.CollectSources(w.fs, dir)
		if err != nil {
			slog.Error("Failed to collect sources", "dir", dir, "error", err)
			return fmt.Errorf("collect sources in %s: %w", dir, err)
		}

		result, err := w.analyzer.Analyze(ctx, files)
		if err != nil {
			return fmt.Errorf("analyze %s: %w", dir, err)
		}

		for _, note := range result.Notes {
			slog.Warn("Analysis degraded", "dir", dir, "file", note.File, "message", note.Message)
		}

		if err := w.ui.DisplayAnalysis(ctx, dir, result.Files); err != nil {
			return fmt.Errorf("display: %w", err)
		}
	}

	w.ui.Wait(ctx)

	return nil
}

// Generate runs one project per directory. Runs go through the engine, which
// bounds how many build at once.
func (w *workflow) Generate(ctx context.Context, args GenerateArgs) error {
	if err := args.Request.Validate(); err != nil {
		return err
	}

	projects := make([]m.Project, 0, len(args.Paths))
	dirs := defaultPaths(args.Paths)

	releaseAll := func() {
		for _, project := range projects {
			w.release(project.ID)
		}
	}

	for _, dir := range dirs {
		files, err := adapter.CollectSources(w.fs, dir)
		if err != nil {
			slog.Error("Failed to collect sources", "dir", dir, "error", err)
			releaseAll()

			return fmt.Errorf("collect sources in %s: %w", dir, err)
		}

		project, err := w.engine.CreateProject(filepath.Base(string(dir)), files)
		if err != nil {
			releaseAll()
			return fmt.Errorf("create project for %s: %w", dir, err)
		}

		project.Workspace = dir
		projects = append(projects, project)
	}

	if err := w.ui.Start(ctx, controller.WithGenerateMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		releaseAll()

		return err
	}
	defer w.ui.Close(ctx)

	var (
		failedMu sync.Mutex
		failed   []m.Path
	)

	group, groupCtx := errgroup.WithContext(ctx)

	for _, project := range projects {
		group.Go(func() error {
			w.ui.DisplayProjectStarted(groupCtx, project.ID, project.Workspace, len(project.Files))

			defer w.release(project.ID)

			resp, err := w.engine.Generate(groupCtx, project.ID, args.Request, w.ui)
			if err != nil {
				return fmt.Errorf("generate %s: %w", project.Workspace, err)
			}

			if args.Write && len(resp.GeneratedTests) > 0 {
				if err := w.writeTests(project.Workspace, resp.GeneratedTests); err != nil {
					return err
				}
			}

			if resp.Status == m.ResponseError {
				failedMu.Lock()
				failed = append(failed, project.Workspace)
				failedMu.Unlock()
			}

			return w.ui.DisplayResult(groupCtx, project.Workspace, resp)
		})
	}

	if err := group.Wait(); err != nil {
		slog.Error("Generation workflow failed", "error", err)
		return err
	}

	w.ui.Wait(ctx)

	if len(failed) > 0 {
		return fmt.Errorf("%w: %d of %d project(s): %v", ErrGenerationFailed, len(failed), len(projects), failed)
	}

	return nil
}

// release drops a reported project from the engine, cancelling its run if it
// is still going.
func (w *workflow) release(projectID string) {
	if err := w.engine.Delete(projectID); err != nil {
		slog.Debug("Project already released", "project", projectID, "error", err)
	}
}

func (w *workflow) writeTests(dir m.Path, tests []m.GeneratedTest) error {
	for _, t := range tests {
		target := w.fs.JoinPath(string(dir), testsDirName, path.Base(t.Filename))

		if err := w.fs.WriteFile(target, []byte(t.Content), 0o644); err != nil {
			slog.Error("Failed to write generated test", "path", target, "error", err)
			return fmt.Errorf("write %s: %w", target, err)
		}

		slog.Info("Wrote generated test", "path", target)
	}

	return nil
}

func (w *workflow) Show(ctx context.Context, projectID string) error {
	if w.store == nil {
		return fmt.Errorf("%w: no report store configured", adapter.ErrReportNotFound)
	}

	resp, err := w.store.LoadReport(projectID)
	if err != nil {
		return fmt.Errorf("load report %s: %w", projectID, err)
	}

	if err := w.ui.Start(ctx, controller.WithReportMode()); err != nil {
		return err
	}
	defer w.ui.Close(ctx)

	if err := w.ui.DisplayResult(ctx, m.Path(resp.ProjectID), resp); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.ui.Wait(ctx)

	return nil
}

func (w *workflow) Doctor(ctx context.Context) error {
	tools := w.validator.Doctor()

	if err := w.ui.Start(ctx, controller.WithReportMode()); err != nil {
		return err
	}
	defer w.ui.Close(ctx)

	if err := w.ui.DisplayDoctor(ctx, tools); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.ui.Wait(ctx)

	var missing []string

	for _, tool := range tools {
		if tool.Required && !tool.Found {
			missing = append(missing, tool.Name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrToolchainMissing, missing)
	}

	return nil
}

func defaultPaths(paths []m.Path) []m.Path {
	if len(paths) == 0 {
		return []m.Path{"."}
	}

	return paths
}
