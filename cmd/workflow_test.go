package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"testsmith.dev/pkg/testsmith/internal/domain"
	domainmocks "testsmith.dev/pkg/testsmith/internal/domain/mocks"
	m "testsmith.dev/pkg/testsmith/internal/model"
)

func withWorkflow(t *testing.T, wf domain.Workflow) {
	t.Helper()

	original := workflowOverride
	workflowOverride = wf
	t.Cleanup(func() { workflowOverride = original })
}

func executeWith(t *testing.T, sub func() *cobra.Command, args ...string) error {
	t.Helper()

	cmd := newRootCmd()
	cmd.AddCommand(sub())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	return cmd.Execute()
}

func TestGenerateCmd_PassesFlagsToWorkflow(t *testing.T) {
	chdirTemp(t)
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	withWorkflow(t, mockWorkflow)
	// Rebind the generate keys to untouched flags so later commands see the defaults.
	t.Cleanup(func() { newGenerateCmd() })

	mockWorkflow.EXPECT().Generate(mock.Anything, mock.MatchedBy(func(args domain.GenerateArgs) bool {
		return len(args.Paths) == 2 &&
			args.Paths[0] == m.Path("core") &&
			args.Paths[1] == m.Path("util") &&
			args.Write &&
			args.Request.Model == m.ModelOpenAIGPT4 &&
			args.Request.Framework == m.FrameworkCatch2 &&
			args.Request.CoverageThreshold == 0.6 &&
			!args.Request.GenerateMocks &&
			args.Request.IncludeIntegrationTests
	})).Return(nil).Once()

	err := executeWith(t, newGenerateCmd,
		"generate", "--model", "openai/gpt-4", "--framework", "catch2", "--threshold", "0.6",
		"--mocks=false", "--integration", "--write", "core", "util")
	require.NoError(t, err)
}

func TestAnalyzeCmd_DefaultsToNoPaths(t *testing.T) {
	chdirTemp(t)
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	withWorkflow(t, mockWorkflow)

	mockWorkflow.EXPECT().Analyze(mock.Anything, []m.Path{}).Return(nil).Once()

	require.NoError(t, executeWith(t, newAnalyzeCmd, "analyze"))
}

func TestDoctorCmd_PropagatesMissingToolchain(t *testing.T) {
	chdirTemp(t)
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	withWorkflow(t, mockWorkflow)

	mockWorkflow.EXPECT().Doctor(mock.Anything).Return(domain.ErrToolchainMissing).Once()

	require.ErrorIs(t, executeWith(t, newDoctorCmd, "doctor"), domain.ErrToolchainMissing)
}

func TestShowCmd_UsesWorkflow(t *testing.T) {
	chdirTemp(t)
	mockWorkflow := domainmocks.NewMockWorkflow(t)
	withWorkflow(t, mockWorkflow)

	mockWorkflow.EXPECT().Show(mock.Anything, "p-1").Return(nil).Once()

	require.NoError(t, executeWith(t, newShowCmd, "show", "p-1"))
}
