package domain_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	adaptermocks "testsmith.dev/pkg/testsmith/internal/adapter/mocks"
	"testsmith.dev/pkg/testsmith/internal/domain"
	domainmocks "testsmith.dev/pkg/testsmith/internal/domain/mocks"
	m "testsmith.dev/pkg/testsmith/internal/model"
)

const waitTimeout = 5 * time.Second

func sources() []m.SourceFile {
	return []m.SourceFile{{Path: "math.cpp", Content: mathSource}}
}

func succeeded(project m.Project) m.TestGenerationResponse {
	return m.TestGenerationResponse{
		ProjectID:      project.ID,
		Status:         m.ResponseSuccess,
		RunStatus:      m.StatusSucceeded,
		GeneratedTests: []m.GeneratedTest{},
	}
}

func waitFor(t *testing.T, handle *domain.RunHandle) m.TestGenerationResponse {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()

	resp, err := handle.Wait(ctx)
	require.NoError(t, err)

	return resp
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()

	select {
	case v := <-ch:
		return v
	case <-time.After(waitTimeout):
		t.Fatalf("timed out waiting on channel")
	}

	var zero T

	return zero
}

func TestEngine_CreateProject(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	engine := domain.NewEngine(domainmocks.NewMockOrchestrator(t), domain.EngineConfig{}, domain.WithClock(func() time.Time { return now }))

	_, err := engine.CreateProject("empty", nil)
	require.ErrorIs(t, err, domain.ErrNoSources)

	_, err = engine.CreateProject("dup", []m.SourceFile{{Path: "a.cpp"}, {Path: "a.cpp"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate source path "a.cpp"`)

	project, err := engine.CreateProject("math", sources())
	require.NoError(t, err)
	assert.Len(t, project.ID, 36)
	assert.Equal(t, m.StatusQueued, project.Status)
	assert.Equal(t, now, project.CreatedAt)

	other, err := engine.CreateProject("math", sources())
	require.NoError(t, err)
	assert.NotEqual(t, project.ID, other.ID)

	status, err := engine.Status(project.ID)
	require.NoError(t, err)
	assert.Equal(t, m.StatusQueued, status.Status)
	assert.False(t, status.Active)
	assert.Equal(t, []string{"math.cpp"}, status.Files)
	assert.Nil(t, status.Last)
	assert.Nil(t, status.Result)
}

func TestEngine_UnknownProject(t *testing.T) {
	engine := domain.NewEngine(domainmocks.NewMockOrchestrator(t), domain.EngineConfig{})

	_, err := engine.Submit(context.Background(), "missing", m.DefaultGenerationRequest())
	require.ErrorIs(t, err, domain.ErrProjectNotFound)

	_, err = engine.Status("missing")
	require.ErrorIs(t, err, domain.ErrProjectNotFound)

	require.ErrorIs(t, engine.Delete("missing"), domain.ErrProjectNotFound)
}

func TestEngine_OneRunPerProject(t *testing.T) {
	orch := domainmocks.NewMockOrchestrator(t)
	started := make(chan struct{}, 1)
	release := make(chan struct{})

	orch.EXPECT().Run(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, project m.Project, _ m.GenerationRequest, _ ...domain.RunObserver) m.TestGenerationResponse {
			started <- struct{}{}
			<-release

			return succeeded(project)
		}).Times(2)

	engine := domain.NewEngine(orch, domain.EngineConfig{MaxConcurrentRuns: 2})
	project, err := engine.CreateProject("math", sources())
	require.NoError(t, err)

	handle, err := engine.Submit(context.Background(), project.ID, m.DefaultGenerationRequest())
	require.NoError(t, err)
	receive(t, started)

	_, err = engine.Submit(context.Background(), project.ID, m.DefaultGenerationRequest())
	require.ErrorIs(t, err, domain.ErrRunInProgress)

	status, err := engine.Status(project.ID)
	require.NoError(t, err)
	assert.True(t, status.Active)

	close(release)

	resp := waitFor(t, handle)
	assert.Equal(t, m.ResponseSuccess, resp.Status)

	status, err = engine.Status(project.ID)
	require.NoError(t, err)
	assert.False(t, status.Active)
	assert.Equal(t, m.StatusSucceeded, status.Status)
	require.NotNil(t, status.Result)
	assert.Equal(t, m.ResponseSuccess, status.Result.Status)

	again, err := engine.Submit(context.Background(), project.ID, m.DefaultGenerationRequest())
	require.NoError(t, err)
	receive(t, started)
	waitFor(t, again)
}

func TestEngine_RunsInSubmissionOrder(t *testing.T) {
	orch := domainmocks.NewMockOrchestrator(t)
	started := make(chan string, 3)
	release := make(chan struct{})

	orch.EXPECT().Run(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, project m.Project, _ m.GenerationRequest, _ ...domain.RunObserver) m.TestGenerationResponse {
			started <- project.Name
			<-release

			return succeeded(project)
		}).Times(3)

	engine := domain.NewEngine(orch, domain.EngineConfig{MaxConcurrentRuns: 1})

	var handles []*domain.RunHandle

	for _, name := range []string{"first", "second", "third"} {
		project, err := engine.CreateProject(name, sources())
		require.NoError(t, err)

		handle, err := engine.Submit(context.Background(), project.ID, m.DefaultGenerationRequest())
		require.NoError(t, err)

		handles = append(handles, handle)
	}

	assert.Equal(t, "first", receive(t, started))

	select {
	case name := <-started:
		t.Fatalf("run %s started while the only slot was taken", name)
	case <-time.After(50 * time.Millisecond):
	}

	status, err := engine.Status(handles[1].ProjectID)
	require.NoError(t, err)
	assert.Equal(t, m.StatusQueued, status.Status)
	assert.True(t, status.Active)

	close(release)

	assert.Equal(t, "second", receive(t, started))
	assert.Equal(t, "third", receive(t, started))

	for _, h := range handles {
		waitFor(t, h)
	}
}

func TestEngine_DeleteCancelsActiveRun(t *testing.T) {
	orch := domainmocks.NewMockOrchestrator(t)
	started := make(chan struct{}, 1)

	orch.EXPECT().Run(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, project m.Project, _ m.GenerationRequest, _ ...domain.RunObserver) m.TestGenerationResponse {
			started <- struct{}{}
			<-ctx.Done()

			return m.TestGenerationResponse{
				ProjectID: project.ID,
				Status:    m.ResponseError,
				RunStatus: m.StatusFailed,
				Error:     domain.ErrRunCancelled.Error(),
			}
		}).Once()

	engine := domain.NewEngine(orch, domain.EngineConfig{})
	project, err := engine.CreateProject("math", sources())
	require.NoError(t, err)

	handle, err := engine.Submit(context.Background(), project.ID, m.DefaultGenerationRequest())
	require.NoError(t, err)
	receive(t, started)

	require.NoError(t, engine.Delete(project.ID))

	resp := waitFor(t, handle)
	assert.Equal(t, domain.ErrRunCancelled.Error(), resp.Error)

	_, err = engine.Status(project.ID)
	require.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestEngine_DeleteQueuedRun(t *testing.T) {
	orch := domainmocks.NewMockOrchestrator(t)
	started := make(chan struct{}, 1)
	release := make(chan struct{})

	orch.EXPECT().Run(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, project m.Project, _ m.GenerationRequest, _ ...domain.RunObserver) m.TestGenerationResponse {
			started <- struct{}{}
			<-release

			return succeeded(project)
		}).Once()

	engine := domain.NewEngine(orch, domain.EngineConfig{MaxConcurrentRuns: 1})

	running, err := engine.CreateProject("running", sources())
	require.NoError(t, err)
	queued, err := engine.CreateProject("queued", sources())
	require.NoError(t, err)

	runningHandle, err := engine.Submit(context.Background(), running.ID, m.DefaultGenerationRequest())
	require.NoError(t, err)
	receive(t, started)

	queuedHandle, err := engine.Submit(context.Background(), queued.ID, m.DefaultGenerationRequest())
	require.NoError(t, err)

	require.NoError(t, engine.Delete(queued.ID))

	resp := waitFor(t, queuedHandle)
	assert.Equal(t, m.ResponseError, resp.Status)
	assert.Equal(t, domain.ErrRunCancelled.Error(), resp.Error)

	close(release)
	waitFor(t, runningHandle)
}

func TestEngine_StatusReportsLastIteration(t *testing.T) {
	orch := domainmocks.NewMockOrchestrator(t)
	progressed := make(chan struct{}, 1)
	release := make(chan struct{})

	orch.EXPECT().Run(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, project m.Project, _ m.GenerationRequest, observers ...domain.RunObserver) m.TestGenerationResponse {
			for _, obs := range observers {
				if ao, ok := obs.(domain.AnalysisObserver); ok {
					analyzed := append([]m.SourceFile(nil), project.Files...)
					analyzed[0].Symbols = []m.ExtractedSymbol{{Name: "add"}, {Name: "subtract"}}
					ao.OnAnalyzed(project.ID, analyzed)
				}

				obs.OnStatus(project.ID, m.StatusBuilding)
				obs.OnSnapshot(project.ID, m.RunSnapshot{Iteration: 1, Status: m.StatusBuilding, Passed: true})
				obs.OnStatus(project.ID, m.StatusRefining)
			}

			progressed <- struct{}{}
			<-release

			return succeeded(project)
		}).Once()

	engine := domain.NewEngine(orch, domain.EngineConfig{})
	project, err := engine.CreateProject("math", sources())
	require.NoError(t, err)

	handle, err := engine.Submit(context.Background(), project.ID, m.DefaultGenerationRequest())
	require.NoError(t, err)
	receive(t, progressed)

	status, err := engine.Status(project.ID)
	require.NoError(t, err)
	assert.Equal(t, m.StatusRefining, status.Status)
	assert.True(t, status.Active)
	assert.Equal(t, 2, status.Symbols)
	require.NotNil(t, status.Last)
	assert.Equal(t, 1, status.Last.Iteration)
	assert.True(t, status.Last.Passed)
	assert.Nil(t, status.Result)

	close(release)
	waitFor(t, handle)
}

func TestEngine_StatusCountsAnalyzedSymbols(t *testing.T) {
	client := domainmocks.NewMockModelClient(t)
	validator := domainmocks.NewMockBuildValidator(t)

	client.EXPECT().Ask(mock.Anything, mock.Anything, mock.Anything).
		Return([]m.GeneratedTest{claim("test_math.cpp", "add", "subtract")}, nil).Once()
	validator.EXPECT().Validate(mock.Anything, mock.Anything, mock.Anything, mock.Anything, 1).
		Return(domain.BuildResult{Passed: true}, nil).Once()

	engine := domain.NewEngine(newTestOrchestrator(client, validator, testPolicy(1, 1)), domain.EngineConfig{})
	project, err := engine.CreateProject("math", sources())
	require.NoError(t, err)

	before, err := engine.Status(project.ID)
	require.NoError(t, err)
	assert.Zero(t, before.Symbols)

	resp, err := engine.Generate(context.Background(), project.ID, m.DefaultGenerationRequest())
	require.NoError(t, err)
	assert.Equal(t, m.ResponseSuccess, resp.Status)

	after, err := engine.Status(project.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, after.Symbols)
	require.NotNil(t, after.Last)
	assert.InDelta(t, 1.0, after.Last.CoverageReport.OverallCoverage, 1e-9)
}

func TestEngine_SavesReports(t *testing.T) {
	orch := domainmocks.NewMockOrchestrator(t)
	store := adaptermocks.NewMockReportStore(t)

	orch.EXPECT().Run(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, project m.Project, _ m.GenerationRequest, _ ...domain.RunObserver) m.TestGenerationResponse {
			return succeeded(project)
		}).Twice()

	engine := domain.NewEngine(orch, domain.EngineConfig{}, domain.WithReportStore(store))
	project, err := engine.CreateProject("math", sources())
	require.NoError(t, err)

	store.EXPECT().SaveReport(mock.MatchedBy(func(r m.TestGenerationResponse) bool { return r.ProjectID == project.ID })).
		Return(nil).Once()
	store.EXPECT().SaveReport(mock.Anything).Return(errors.New("disk full")).Once()

	resp, err := engine.Generate(context.Background(), project.ID, m.DefaultGenerationRequest())
	require.NoError(t, err)
	assert.Equal(t, m.ResponseSuccess, resp.Status)

	// A failing store does not fail the run.
	resp, err = engine.Generate(context.Background(), project.ID, m.DefaultGenerationRequest())
	require.NoError(t, err)
	assert.Equal(t, m.ResponseSuccess, resp.Status)
}

func TestEngine_WaitDoesNotCancelRun(t *testing.T) {
	orch := domainmocks.NewMockOrchestrator(t)
	release := make(chan struct{})

	orch.EXPECT().Run(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, project m.Project, _ m.GenerationRequest, _ ...domain.RunObserver) m.TestGenerationResponse {
			<-release

			resp := succeeded(project)
			if ctx.Err() != nil {
				resp.Status = m.ResponseError
			}

			return resp
		}).Once()

	engine := domain.NewEngine(orch, domain.EngineConfig{})
	project, err := engine.CreateProject("math", sources())
	require.NoError(t, err)

	handle, err := engine.Submit(context.Background(), project.ID, m.DefaultGenerationRequest())
	require.NoError(t, err)

	waitCtx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = handle.Wait(waitCtx)
	require.ErrorIs(t, err, context.Canceled)

	close(release)

	resp := waitFor(t, handle)
	assert.Equal(t, m.ResponseSuccess, resp.Status)
}

func TestEngine_Sweep(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	orch := domainmocks.NewMockOrchestrator(t)
	release := make(chan struct{})
	started := make(chan struct{}, 1)

	orch.EXPECT().Run(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, project m.Project, _ m.GenerationRequest, _ ...domain.RunObserver) m.TestGenerationResponse {
			started <- struct{}{}
			<-release

			return succeeded(project)
		}).Once()

	engine := domain.NewEngine(orch, domain.EngineConfig{ProjectTTL: time.Hour}, domain.WithClock(func() time.Time { return start }))

	idle, err := engine.CreateProject("idle", sources())
	require.NoError(t, err)
	busy, err := engine.CreateProject("busy", sources())
	require.NoError(t, err)

	handle, err := engine.Submit(context.Background(), busy.ID, m.DefaultGenerationRequest())
	require.NoError(t, err)
	receive(t, started)

	assert.Empty(t, engine.Sweep(start.Add(30*time.Minute)))
	assert.Equal(t, []string{idle.ID}, engine.Sweep(start.Add(2*time.Hour)))

	_, err = engine.Status(idle.ID)
	require.ErrorIs(t, err, domain.ErrProjectNotFound)

	_, err = engine.Status(busy.ID)
	require.NoError(t, err)

	close(release)
	waitFor(t, handle)

	disabled := domain.NewEngine(orch, domain.EngineConfig{})
	_, err = disabled.CreateProject("kept", sources())
	require.NoError(t, err)
	assert.Nil(t, disabled.Sweep(start.Add(1000*time.Hour)))
}
