package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "testsmith.dev/pkg/testsmith/internal/model"
)

func fireAll(t *testing.T, machine *runMachine, events ...string) {
	t.Helper()

	for _, event := range events {
		_, err := machine.Fire(event)
		require.NoError(t, err, "event %s", event)
	}
}

func TestRunMachine_HappyPath(t *testing.T) {
	machine, err := newRunMachine("p-1")
	require.NoError(t, err)
	assert.Equal(t, m.StatusQueued, machine.Status())

	steps := []struct {
		event string
		want  m.Status
	}{
		{EventAnalyze, m.StatusAnalyzing},
		{EventGenerate, m.StatusGenerating},
		{EventBuild, m.StatusBuilding},
		{EventFix, m.StatusBuildFixing},
		{EventBuild, m.StatusBuilding},
		{EventRefine, m.StatusRefining},
		{EventBuild, m.StatusBuilding},
		{EventSucceed, m.StatusSucceeded},
	}

	for _, step := range steps {
		status, err := machine.Fire(step.event)
		require.NoError(t, err, "event %s", step.event)
		assert.Equal(t, step.want, status)
	}

	assert.True(t, machine.Status().Terminal())
}

func TestRunMachine_RejectsInvalidEvents(t *testing.T) {
	tests := []struct {
		name   string
		before []string
		event  string
	}{
		{name: "build before generate", before: []string{EventAnalyze}, event: EventBuild},
		{name: "succeed while generating", before: []string{EventAnalyze, EventGenerate}, event: EventSucceed},
		{name: "refine while fixing", before: []string{EventAnalyze, EventGenerate, EventBuild, EventFix}, event: EventRefine},
		{name: "unknown event", before: nil, event: "teleport"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			machine, err := newRunMachine("p-1")
			require.NoError(t, err)
			fireAll(t, machine, tt.before...)

			before := machine.Status()
			status, err := machine.Fire(tt.event)

			require.Error(t, err)
			assert.Equal(t, before, status)
			assert.Equal(t, before, machine.Status())
		})
	}
}

func TestRunMachine_FailFromEveryActiveState(t *testing.T) {
	prefixes := [][]string{
		nil,
		{EventAnalyze},
		{EventAnalyze, EventGenerate},
		{EventAnalyze, EventGenerate, EventBuild},
		{EventAnalyze, EventGenerate, EventBuild, EventRefine},
		{EventAnalyze, EventGenerate, EventBuild, EventFix},
	}

	for _, prefix := range prefixes {
		machine, err := newRunMachine("p-1")
		require.NoError(t, err)
		fireAll(t, machine, prefix...)

		status, err := machine.Fire(EventFail)
		require.NoError(t, err)
		assert.Equal(t, m.StatusFailed, status)
	}
}

func TestRunMachine_TerminalStatesAreFinal(t *testing.T) {
	machine, err := newRunMachine("p-1")
	require.NoError(t, err)
	fireAll(t, machine, EventFail)

	for _, event := range []string{EventAnalyze, EventGenerate, EventBuild, EventSucceed, EventFail} {
		_, err := machine.Fire(event)
		require.Error(t, err, "event %s", event)
	}

	assert.Equal(t, m.StatusFailed, machine.Status())
}
