package domain

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"

	m "testsmith.dev/pkg/testsmith/internal/model"
)

// Run events.
const (
	EventAnalyze  = "analyze"
	EventGenerate = "generate"
	EventBuild    = "build"
	EventSucceed  = "succeed"
	EventRefine   = "refine"
	EventFix      = "fix"
	EventFail     = "fail"
)

type runContext struct {
	ProjectID string
}

// runMachine holds the lifecycle of one run. Terminal states accept no events.
type runMachine struct {
	projectID   string
	interpreter *statekit.Interpreter[runContext]
}

func newRunMachine(projectID string) (*runMachine, error) {
	builder := statekit.NewMachine[runContext]("run-" + projectID).
		WithInitial(statekit.StateID(m.StatusQueued)).
		WithContext(runContext{ProjectID: projectID})

	builder.State(statekit.StateID(m.StatusQueued)).
		On(EventAnalyze).Target(statekit.StateID(m.StatusAnalyzing)).
		On(EventFail).Target(statekit.StateID(m.StatusFailed)).
		Done()

	builder.State(statekit.StateID(m.StatusAnalyzing)).
		On(EventGenerate).Target(statekit.StateID(m.StatusGenerating)).
		On(EventFail).Target(statekit.StateID(m.StatusFailed)).
		Done()

	builder.State(statekit.StateID(m.StatusGenerating)).
		On(EventBuild).Target(statekit.StateID(m.StatusBuilding)).
		On(EventFail).Target(statekit.StateID(m.StatusFailed)).
		Done()

	builder.State(statekit.StateID(m.StatusBuilding)).
		On(EventSucceed).Target(statekit.StateID(m.StatusSucceeded)).
		On(EventRefine).Target(statekit.StateID(m.StatusRefining)).
		On(EventFix).Target(statekit.StateID(m.StatusBuildFixing)).
		On(EventFail).Target(statekit.StateID(m.StatusFailed)).
		Done()

	builder.State(statekit.StateID(m.StatusRefining)).
		On(EventBuild).Target(statekit.StateID(m.StatusBuilding)).
		On(EventFail).Target(statekit.StateID(m.StatusFailed)).
		Done()

	builder.State(statekit.StateID(m.StatusBuildFixing)).
		On(EventBuild).Target(statekit.StateID(m.StatusBuilding)).
		On(EventFail).Target(statekit.StateID(m.StatusFailed)).
		Done()

	builder.State(statekit.StateID(m.StatusSucceeded)).Done()
	builder.State(statekit.StateID(m.StatusFailed)).Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build run state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &runMachine{projectID: projectID, interpreter: interpreter}, nil
}

// Fire sends event and returns the new status. An event that does not move
// the machine is rejected.
func (r *runMachine) Fire(event string) (m.Status, error) {
	before := r.Status()

	r.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})

	after := r.Status()
	if after == before {
		return before, fmt.Errorf("run %s: event %q not allowed in state %q", r.projectID, event, before)
	}

	return after, nil
}

// Status returns the current run status.
func (r *runMachine) Status() m.Status {
	return m.Status(r.interpreter.State().Value)
}
