package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	m "testsmith.dev/pkg/testsmith/internal/model"
)

// ErrRunCancelled is the failure message of a run stopped by its context.
var ErrRunCancelled = errors.New("run cancelled")

// RetryPolicy holds the per-stage budgets of a run. Every model invocation of
// a stage consumes one attempt of that stage's budget, including retries of
// rate-limited or unavailable providers.
type RetryPolicy struct {
	GenerationAttempts int
	MaxBuildFixes      int
	MaxRefinements     int
	BackoffBase        time.Duration
	BackoffMax         time.Duration
}

// DefaultRetryPolicy returns the standard small budgets.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		GenerationAttempts: 3,
		MaxBuildFixes:      3,
		MaxRefinements:     2,
		BackoffBase:        2 * time.Second,
		BackoffMax:         30 * time.Second,
	}
}

// Backoff returns the wait after the n-th failed attempt: min(base*2^(n-1), max).
func (p RetryPolicy) Backoff(n int) time.Duration {
	if n < 1 {
		n = 1
	}

	d := p.BackoffBase
	for i := 1; i < n && d < p.BackoffMax; i++ {
		d *= 2
	}

	if p.BackoffMax > 0 && d > p.BackoffMax {
		return p.BackoffMax
	}

	return d
}

// RunObserver receives run progress. Snapshots describe fully completed
// iterations only.
type RunObserver interface {
	OnStatus(projectID string, status m.Status)
	OnRevision(projectID string, revision m.TestRevision)
	OnSnapshot(projectID string, snapshot m.RunSnapshot)
}

// AnalysisObserver is implemented by observers that also want the analyzed
// sources of a run.
type AnalysisObserver interface {
	OnAnalyzed(projectID string, files []m.SourceFile)
}

// ModelClientFactory returns the client for a request's model.
type ModelClientFactory func(model m.LLMModel) (ModelClient, error)

// Orchestrator drives one run of a project from analysis to a terminal status.
type Orchestrator interface {
	Run(ctx context.Context, project m.Project, req m.GenerationRequest, observers ...RunObserver) m.TestGenerationResponse
}

// OrchestratorOption customizes an Orchestrator.
type OrchestratorOption func(*orchestrator)

// WithMetrics records run measurements into mt.
func WithMetrics(mt *Metrics) OrchestratorOption {
	return func(o *orchestrator) { o.metrics = mt }
}

// WithSleep replaces the backoff wait, which must return ctx.Err() when ctx
// ends first.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) OrchestratorOption {
	return func(o *orchestrator) { o.sleep = sleep }
}

// WithLogSpill keeps each run's build log in a disk spill under dir.
func WithLogSpill(dir string) OrchestratorOption {
	return func(o *orchestrator) {
		o.spill = true
		o.spillDir = dir
	}
}

type orchestrator struct {
	analyzer  Analyzer
	prompts   PromptBuilder
	clients   ModelClientFactory
	validator BuildValidator
	policy    RetryPolicy
	metrics   *Metrics
	sleep     func(ctx context.Context, d time.Duration) error
	spill     bool
	spillDir  string
	now       func() time.Time
}

// NewOrchestrator constructs an Orchestrator from its collaborators.
func NewOrchestrator(analyzer Analyzer, prompts PromptBuilder, clients ModelClientFactory, validator BuildValidator, policy RetryPolicy, opts ...OrchestratorOption) Orchestrator {
	if policy.GenerationAttempts < 1 {
		policy.GenerationAttempts = 1
	}

	o := &orchestrator{
		analyzer:  analyzer,
		prompts:   prompts,
		clients:   clients,
		validator: validator,
		policy:    policy,
		sleep:     sleepContext,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// budget counts the attempts of one stage.
type budget struct {
	stage m.Stage
	max   int
	used  int
}

func (b *budget) remaining() int {
	return b.max - b.used
}

// run is the single-writer state of one orchestration.
type run struct {
	o         *orchestrator
	project   m.Project
	req       m.GenerationRequest
	observers []RunObserver
	machine   *runMachine
	client    ModelClient
	log       *runLog

	files      []m.SourceFile
	tests      []m.GeneratedTest
	coverage   m.CoverageReport
	lastErrors []m.BuildLogEntry
	iteration  int

	generation budget
	fixes      budget
	refines    budget

	best         []m.GeneratedTest
	bestCoverage m.CoverageReport
	hasPassing   bool

	response m.TestGenerationResponse
}

func (o *orchestrator) Run(ctx context.Context, project m.Project, req m.GenerationRequest, observers ...RunObserver) m.TestGenerationResponse {
	r := &run{
		o:          o,
		project:    project,
		req:        req,
		observers:  observers,
		log:        newRunLog(o.spillDir, o.spill),
		generation: budget{stage: m.StageInitialGeneration, max: o.policy.GenerationAttempts},
		fixes:      budget{stage: m.StageBuildFix, max: o.policy.MaxBuildFixes},
		refines:    budget{stage: m.StageRefinement, max: o.policy.MaxRefinements},
		response:   m.TestGenerationResponse{ProjectID: project.ID, StartedAt: o.now()},
	}

	defer r.log.close()

	machine, err := newRunMachine(project.ID)
	if err != nil {
		// The machine definition is static; this only fires on a programming error.
		panic(err)
	}

	r.machine = machine

	if err := req.Validate(); err != nil {
		return r.finish(err)
	}

	return r.finish(r.execute(ctx))
}

// execute drives the machine until the run either succeeds (nil) or fails.
func (r *run) execute(ctx context.Context) error {
	if err := r.fire(EventAnalyze); err != nil {
		return err
	}

	analysis, err := r.o.analyzer.Analyze(ctx, r.project.Files)
	if err != nil {
		return r.interrupted(ctx, fmt.Errorf("analysis failed: %w", err))
	}

	r.files = analysis.Files
	r.project.Files = analysis.Files
	r.log.append(analysis.Notes...)

	for _, obs := range r.observers {
		if ao, ok := obs.(AnalysisObserver); ok {
			ao.OnAnalyzed(r.project.ID, analysis.Files)
		}
	}

	client, err := r.o.clients(r.req.Model)
	if err != nil {
		return fmt.Errorf("model provider unavailable: %w", err)
	}

	r.client = client

	if err := r.fire(EventGenerate); err != nil {
		return err
	}

	prompt := r.o.prompts.Build(m.StageInitialGeneration, r.project, r.req, PromptContext{})

	tests, err := r.invoke(ctx, prompt, &r.generation)
	if err != nil {
		return r.interrupted(ctx, err)
	}

	r.revise(m.StageInitialGeneration, tests)

	for {
		if err := r.fire(EventBuild); err != nil {
			return err
		}

		passed, err := r.build(ctx)
		if err != nil {
			return r.interrupted(ctx, err)
		}

		switch {
		case passed && r.coverage.OverallCoverage >= r.req.CoverageThreshold:
			return r.fire(EventSucceed)
		case passed && r.refines.remaining() > 0:
			if err := r.fire(EventRefine); err != nil {
				return err
			}

			if err := r.refine(ctx); err != nil {
				return r.interrupted(ctx, err)
			}
		case !passed && r.fixes.remaining() > 0:
			if err := r.fire(EventFix); err != nil {
				return err
			}

			if err := r.fix(ctx); err != nil {
				return r.interrupted(ctx, err)
			}
		case passed:
			return fmt.Errorf("coverage %.2f below threshold %.2f after %d refinement attempts",
				r.coverage.OverallCoverage, r.req.CoverageThreshold, r.refines.used)
		default:
			return fmt.Errorf("build failed after %d build-fix attempts", r.fixes.used)
		}
	}
}

func (r *run) build(ctx context.Context) (bool, error) {
	r.iteration++

	result, err := r.o.validator.Validate(ctx, r.files, r.tests, r.req.Framework, r.iteration)
	if err != nil {
		return false, err
	}

	r.o.metrics.buildFinished(result.Passed, result.Duration)
	r.log.append(result.Logs...)

	r.coverage = EstimateCoverage(r.files, r.tests)
	r.tests = ApplyCoverage(r.tests, r.coverage)

	if result.Passed && (!r.hasPassing || r.coverage.OverallCoverage > r.bestCoverage.OverallCoverage) {
		r.best = r.tests
		r.bestCoverage = r.coverage
		r.hasPassing = true
	}

	slog.Info("Build iteration finished", "project", r.project.ID, "iteration", r.iteration,
		"passed", result.Passed, "coverage", r.coverage.OverallCoverage, "duration", result.Duration)

	snapshot := m.RunSnapshot{
		Iteration:      r.iteration,
		Status:         r.machine.Status(),
		Passed:         result.Passed,
		GeneratedTests: r.tests,
		CoverageReport: r.coverage,
		BuildLogs:      r.log.entries(),
		BuildFixesUsed: r.fixes.used,
		RefinesUsed:    r.refines.used,
	}

	for _, obs := range r.observers {
		obs.OnSnapshot(r.project.ID, snapshot)
	}

	r.lastErrors = m.ErrorEntries(result.Logs)

	return result.Passed, nil
}

func (r *run) refine(ctx context.Context) error {
	prompt := r.o.prompts.Build(m.StageRefinement, r.project, r.req, PromptContext{
		Tests:     r.tests,
		Coverage:  &r.coverage,
		Uncovered: r.coverage.Uncovered,
	})

	tests, err := r.invoke(ctx, prompt, &r.refines)
	if err != nil {
		return err
	}

	r.revise(m.StageRefinement, MergeTests(r.tests, tests))

	return nil
}

func (r *run) fix(ctx context.Context) error {
	prompt := r.o.prompts.Build(m.StageBuildFix, r.project, r.req, PromptContext{
		Tests:  r.tests,
		Errors: r.lastErrors,
	})

	tests, err := r.invoke(ctx, prompt, &r.fixes)
	if err != nil {
		return err
	}

	r.revise(m.StageBuildFix, MergeTests(r.tests, tests))

	return nil
}

// invoke asks the model, retrying retryable failures with backoff while the
// stage budget lasts.
func (r *run) invoke(ctx context.Context, prompt m.Prompt, b *budget) ([]m.GeneratedTest, error) {
	var lastErr error

	for b.remaining() > 0 {
		b.used++

		tests, err := r.client.Ask(ctx, prompt, r.files)
		if err == nil {
			r.o.metrics.modelInvoked(string(b.stage), "ok")
			return tests, nil
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		outcome := "error"
		if kind, ok := ProviderErrorKind(err); ok {
			outcome = string(kind)
		}

		r.o.metrics.modelInvoked(string(b.stage), outcome)
		r.log.append(m.BuildLogEntry{
			Level:     m.LevelWarning,
			Message:   fmt.Sprintf("%s attempt %d/%d failed: %v", b.stage, b.used, b.max, err),
			Iteration: r.iteration,
		})

		lastErr = err
		if !IsRetryable(err) {
			return nil, fmt.Errorf("%s failed: %w", b.stage, err)
		}

		if b.remaining() == 0 {
			break
		}

		wait := r.o.policy.Backoff(b.used)
		slog.Info("Retrying model invocation", "project", r.project.ID, "stage", b.stage, "attempt", b.used, "wait", wait)

		if err := r.o.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	if lastErr == nil {
		return nil, fmt.Errorf("%s budget exhausted: no attempts configured", b.stage)
	}

	return nil, fmt.Errorf("%s budget exhausted after %d attempts: %w", b.stage, b.used, lastErr)
}

func (r *run) revise(stage m.Stage, tests []m.GeneratedTest) {
	revision := m.TestRevision{
		Iteration: r.iteration,
		Stage:     stage,
		Previous:  r.tests,
		Current:   tests,
	}

	r.tests = tests

	for _, obs := range r.observers {
		obs.OnRevision(r.project.ID, revision)
	}
}

func (r *run) fire(event string) error {
	status, err := r.machine.Fire(event)
	if err != nil {
		return err
	}

	for _, obs := range r.observers {
		obs.OnStatus(r.project.ID, status)
	}

	return nil
}

// interrupted maps a context-caused error onto ErrRunCancelled.
func (r *run) interrupted(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ErrRunCancelled
	}

	return err
}

// finish moves the machine to its terminal state and assembles the response.
func (r *run) finish(runErr error) m.TestGenerationResponse {
	resp := r.response

	if runErr != nil && !r.machine.Status().Terminal() {
		if err := r.fire(EventFail); err != nil {
			slog.Error("Failed to mark run failed", "project", r.project.ID, "error", err)
		}
	}

	if runErr != nil {
		slog.Warn("Run failed", "project", r.project.ID, "error", runErr)
		r.log.append(m.BuildLogEntry{Level: m.LevelError, Message: runErr.Error(), Iteration: r.iteration})
		resp.Error = runErr.Error()
	}

	resp.RunStatus = r.machine.Status()
	resp.Iterations = r.iteration
	resp.BuildFixesUsed = r.fixes.used
	resp.RefinesUsed = r.refines.used
	resp.BuildLogs = r.log.entries()
	resp.FinishedAt = r.o.now()

	switch {
	case resp.RunStatus == m.StatusSucceeded:
		resp.Status = m.ResponseSuccess
		resp.GeneratedTests = r.tests
		resp.CoverageReport = &r.coverage
	case r.hasPassing:
		resp.Status = m.ResponsePartial
		resp.GeneratedTests = r.best
		resp.CoverageReport = &r.bestCoverage
	default:
		resp.Status = m.ResponseError
		resp.GeneratedTests = r.tests

		if r.iteration > 0 {
			resp.CoverageReport = &r.coverage
		}
	}

	if resp.GeneratedTests == nil {
		resp.GeneratedTests = []m.GeneratedTest{}
	}

	r.o.metrics.runFinished(string(resp.Status), r.iteration)

	return resp
}

// MergeTests supersedes prior tests by filename with update. Prior files the
// update does not mention are kept; new files are appended in update order.
func MergeTests(prior, update []m.GeneratedTest) []m.GeneratedTest {
	index := make(map[string]int, len(update))
	for i, t := range update {
		index[t.Filename] = i
	}

	out := make([]m.GeneratedTest, 0, len(prior)+len(update))
	used := make(map[string]bool, len(update))

	for _, t := range prior {
		if i, ok := index[t.Filename]; ok {
			out = append(out, update[i])
			used[t.Filename] = true

			continue
		}

		out = append(out, t)
	}

	for _, t := range update {
		if !used[t.Filename] {
			out = append(out, t)
			used[t.Filename] = true
		}
	}

	return out
}
