package domain

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	mt := NewMetrics(reg)

	mt.runQueued()
	mt.runQueued()
	mt.runStarted()
	mt.runDequeued()
	mt.modelInvoked("initial_generation", "ok")
	mt.modelInvoked("build_fix", "rate_limited")
	mt.modelInvoked("build_fix", "rate_limited")
	mt.buildFinished(true, 2*time.Second)
	mt.buildFinished(false, time.Second)
	mt.runFinished("success", 3)
	mt.runReleased()

	assert.InDelta(t, 0, testutil.ToFloat64(mt.QueuedRuns), 1e-9)
	assert.InDelta(t, 0, testutil.ToFloat64(mt.ActiveRuns), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(mt.RunsTotal.WithLabelValues("success")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(mt.ModelInvocations.WithLabelValues("initial_generation", "ok")), 1e-9)
	assert.InDelta(t, 2, testutil.ToFloat64(mt.ModelInvocations.WithLabelValues("build_fix", "rate_limited")), 1e-9)
	assert.Equal(t, 2, testutil.CollectAndCount(mt.BuildDuration))

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}

	for _, want := range []string{
		"testsmith_runs_total",
		"testsmith_run_iterations",
		"testsmith_model_invocations_total",
		"testsmith_build_duration_seconds",
		"testsmith_active_runs",
		"testsmith_queued_runs",
	} {
		assert.True(t, names[want], "missing metric %s", want)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var mt *Metrics

	assert.NotPanics(t, func() {
		mt.runQueued()
		mt.runStarted()
		mt.runDequeued()
		mt.runReleased()
		mt.modelInvoked("build_fix", "ok")
		mt.buildFinished(true, time.Second)
		mt.runFinished("error", 1)
	})
}
