package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"testsmith.dev/pkg/testsmith/internal/adapter"
	m "testsmith.dev/pkg/testsmith/internal/model"
)

// Registry errors.
var (
	ErrProjectNotFound = errors.New("project not found")
	ErrRunInProgress   = errors.New("a run is already in progress for this project")
	ErrNoSources       = errors.New("project has no source files")
)

// DefaultMaxConcurrentRuns bounds parallel runs when the config leaves it unset.
const DefaultMaxConcurrentRuns = 2

// EngineConfig configures the project registry and its scheduler.
type EngineConfig struct {
	MaxConcurrentRuns int
	// ProjectTTL is how long an idle project survives a Sweep. Zero disables expiry.
	ProjectTTL time.Duration
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithReportStore persists every finished run's response.
func WithReportStore(store adapter.ReportStore) EngineOption {
	return func(e *Engine) { e.store = store }
}

// WithEngineMetrics records queue and active-run gauges.
func WithEngineMetrics(mt *Metrics) EngineOption {
	return func(e *Engine) { e.metrics = mt }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// Engine is the process-wide project registry. It admits at most one run per
// project and schedules runs of distinct projects in submission order, at most
// MaxConcurrentRuns at a time.
type Engine struct {
	orchestrator Orchestrator
	config       EngineConfig
	slots        *semaphore.Weighted
	store        adapter.ReportStore
	metrics      *Metrics
	now          func() time.Time

	mu          sync.Mutex
	projects    map[string]*projectEntry
	pending     []*job
	dispatching bool
}

type projectEntry struct {
	project m.Project
	status  m.Status
	active  bool
	cancel  context.CancelFunc
	last    *m.RunSnapshot
	result  *m.TestGenerationResponse
}

// RunHandle tracks one submitted run.
type RunHandle struct {
	ProjectID string

	done chan struct{}
	resp m.TestGenerationResponse
}

// Done is closed when the run reaches a terminal state.
func (h *RunHandle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the run finishes or ctx ends. Cancelling ctx does not
// cancel the run; use Engine.Delete for that.
func (h *RunHandle) Wait(ctx context.Context) (m.TestGenerationResponse, error) {
	select {
	case <-h.done:
		return h.resp, nil
	case <-ctx.Done():
		return m.TestGenerationResponse{}, ctx.Err()
	}
}

// NewEngine constructs an Engine around orchestrator.
func NewEngine(orchestrator Orchestrator, config EngineConfig, opts ...EngineOption) *Engine {
	if config.MaxConcurrentRuns < 1 {
		config.MaxConcurrentRuns = DefaultMaxConcurrentRuns
	}

	e := &Engine{
		orchestrator: orchestrator,
		config:       config,
		slots:        semaphore.NewWeighted(int64(config.MaxConcurrentRuns)),
		now:          time.Now,
		projects:     make(map[string]*projectEntry),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// CreateProject registers a source set under a fresh UUID.
func (e *Engine) CreateProject(name string, files []m.SourceFile) (m.Project, error) {
	if len(files) == 0 {
		return m.Project{}, ErrNoSources
	}

	seen := make(map[string]bool, len(files))
	for _, f := range files {
		if seen[f.Path] {
			return m.Project{}, fmt.Errorf("duplicate source path %q", f.Path)
		}

		seen[f.Path] = true
	}

	now := e.now()
	project := m.Project{
		ID:        uuid.NewString(),
		Name:      name,
		Files:     append([]m.SourceFile(nil), files...),
		Status:    m.StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}

	e.mu.Lock()
	e.projects[project.ID] = &projectEntry{project: project, status: m.StatusQueued}
	e.mu.Unlock()

	slog.Debug("Project created", "project", project.ID, "name", name, "files", len(files))

	return project, nil
}

// Submit starts a run for the project. It returns ErrRunInProgress while
// another run of the same project is queued or active. The run's context
// derives from ctx.
func (e *Engine) Submit(ctx context.Context, projectID string, req m.GenerationRequest, observers ...RunObserver) (*RunHandle, error) {
	e.mu.Lock()

	entry, ok := e.projects[projectID]
	if !ok {
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}

	if entry.active {
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrRunInProgress, projectID)
	}

	runCtx, cancel := context.WithCancel(ctx)
	entry.active = true
	entry.cancel = cancel
	entry.status = m.StatusQueued
	entry.last = nil
	entry.result = nil
	entry.project.UpdatedAt = e.now()

	j := &job{
		ctx:       runCtx,
		cancel:    cancel,
		project:   entry.project,
		req:       req,
		observers: observers,
		handle:    &RunHandle{ProjectID: projectID, done: make(chan struct{})},
	}

	e.pending = append(e.pending, j)
	e.metrics.runQueued()

	if !e.dispatching {
		e.dispatching = true
		go e.dispatch()
	}

	e.mu.Unlock()

	return j.handle, nil
}

// Generate submits a run and waits for it.
func (e *Engine) Generate(ctx context.Context, projectID string, req m.GenerationRequest, observers ...RunObserver) (m.TestGenerationResponse, error) {
	handle, err := e.Submit(ctx, projectID, req, observers...)
	if err != nil {
		return m.TestGenerationResponse{}, err
	}

	return handle.Wait(ctx)
}

// job is one submitted run waiting for or holding a slot.
type job struct {
	ctx       context.Context
	cancel    context.CancelFunc
	project   m.Project
	req       m.GenerationRequest
	observers []RunObserver
	handle    *RunHandle
}

// dispatch hands slots to pending jobs strictly in submission order. It exits
// when the queue drains; Submit restarts it.
func (e *Engine) dispatch() {
	for {
		e.mu.Lock()
		if len(e.pending) == 0 {
			e.dispatching = false
			e.mu.Unlock()

			return
		}

		j := e.pending[0]
		e.pending = e.pending[1:]
		e.mu.Unlock()

		if err := e.slots.Acquire(j.ctx, 1); err != nil {
			e.metrics.runDequeued()
			e.finish(j, cancelledResponse(j.project.ID, e.now()))

			continue
		}

		e.metrics.runStarted()

		go e.execute(j)
	}
}

func (e *Engine) execute(j *job) {
	observers := append([]RunObserver{&registryObserver{engine: e}}, j.observers...)
	resp := e.orchestrator.Run(j.ctx, j.project, j.req, observers...)

	e.slots.Release(1)
	e.metrics.runReleased()
	e.finish(j, resp)
}

func (e *Engine) finish(j *job, resp m.TestGenerationResponse) {
	j.cancel()
	e.complete(j.project.ID, resp)

	j.handle.resp = resp
	close(j.handle.done)
}

func cancelledResponse(projectID string, now time.Time) m.TestGenerationResponse {
	return m.TestGenerationResponse{
		ProjectID:      projectID,
		Status:         m.ResponseError,
		RunStatus:      m.StatusFailed,
		GeneratedTests: []m.GeneratedTest{},
		BuildLogs:      []m.BuildLogEntry{{Level: m.LevelError, Message: ErrRunCancelled.Error()}},
		Error:          ErrRunCancelled.Error(),
		StartedAt:      now,
		FinishedAt:     now,
	}
}

func (e *Engine) complete(projectID string, resp m.TestGenerationResponse) {
	e.mu.Lock()

	entry, ok := e.projects[projectID]
	if ok {
		entry.active = false
		entry.cancel = nil
		entry.status = resp.RunStatus
		entry.result = &resp
		entry.project.Status = resp.RunStatus
		entry.project.UpdatedAt = e.now()
	}

	e.mu.Unlock()

	if !ok {
		slog.Info("Run finished for deleted project", "project", projectID, "status", resp.Status)
		return
	}

	if e.store != nil {
		if err := e.store.SaveReport(resp); err != nil {
			slog.Error("Failed to save run report", "project", projectID, "error", err)
		}
	}
}

// Status returns the project's current state and its last completed iteration.
func (e *Engine) Status(projectID string) (m.ProjectStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.projects[projectID]
	if !ok {
		return m.ProjectStatus{}, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}

	symbols := 0
	for _, f := range entry.project.Files {
		symbols += len(f.Symbols)
	}

	st := m.ProjectStatus{
		ProjectID: entry.project.ID,
		Status:    entry.status,
		Active:    entry.active,
		Files:     entry.project.FilePaths(),
		Symbols:   symbols,
		CreatedAt: entry.project.CreatedAt,
		UpdatedAt: entry.project.UpdatedAt,
	}

	if entry.last != nil {
		last := *entry.last
		st.Last = &last
	}

	if entry.result != nil {
		result := *entry.result
		st.Result = &result
	}

	return st, nil
}

// Delete removes the project, cancelling its in-flight run.
func (e *Engine) Delete(projectID string) error {
	e.mu.Lock()

	entry, ok := e.projects[projectID]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}

	delete(e.projects, projectID)
	cancel := entry.cancel

	var queued *job

	for i, j := range e.pending {
		if j.project.ID == projectID {
			queued = j
			e.pending = append(e.pending[:i:i], e.pending[i+1:]...)

			break
		}
	}
	e.mu.Unlock()

	if cancel != nil {
		slog.Info("Cancelling run of deleted project", "project", projectID)
		cancel()
	}

	if queued != nil {
		e.metrics.runDequeued()
		e.finish(queued, cancelledResponse(projectID, e.now()))
	}

	return nil
}

// Sweep deletes idle projects untouched for longer than ProjectTTL and
// returns their ids.
func (e *Engine) Sweep(now time.Time) []string {
	if e.config.ProjectTTL <= 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var expired []string

	for id, entry := range e.projects {
		if entry.active {
			continue
		}

		if now.Sub(entry.project.UpdatedAt) > e.config.ProjectTTL {
			delete(e.projects, id)
			expired = append(expired, id)
		}
	}

	return expired
}

// registryObserver publishes run progress into the registry.
type registryObserver struct {
	engine *Engine
}

func (o *registryObserver) OnStatus(projectID string, status m.Status) {
	o.engine.mu.Lock()
	defer o.engine.mu.Unlock()

	if entry, ok := o.engine.projects[projectID]; ok {
		entry.status = status
		entry.project.UpdatedAt = o.engine.now()
	}
}

func (o *registryObserver) OnRevision(string, m.TestRevision) {}

func (o *registryObserver) OnAnalyzed(projectID string, files []m.SourceFile) {
	o.engine.mu.Lock()
	defer o.engine.mu.Unlock()

	if entry, ok := o.engine.projects[projectID]; ok {
		entry.project.Files = slices.Clone(files)
	}
}

func (o *registryObserver) OnSnapshot(projectID string, snapshot m.RunSnapshot) {
	o.engine.mu.Lock()
	defer o.engine.mu.Unlock()

	if entry, ok := o.engine.projects[projectID]; ok {
		entry.last = &snapshot
	}
}
