// Package cmd provides the root command and CLI setup for testsmith.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"testsmith.dev/pkg/testsmith/internal/adapter"
	"testsmith.dev/pkg/testsmith/internal/controller"
	"testsmith.dev/pkg/testsmith/internal/domain"
	m "testsmith.dev/pkg/testsmith/internal/model"
)

// verboseFlag raises the log level to debug and prints revision diffs.
var verboseFlag bool

// logFileFlag overrides the log file path.
var logFileFlag string

const pathArgsHelp = `Each directory argument is one project: every C++ source and header under
it (excluding build/, tests/ and third-party directories) is analyzed together.
Without arguments the current directory is used.`

const rootLongDescription = `testsmith analyzes C++ sources, asks an AI model to write unit tests for
them, compiles the result, and repairs or extends the tests until they build
and reach the requested coverage.

` + pathArgsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	loadConfig()

	cmd := &cobra.Command{
		Use:   "testsmith",
		Short: "AI-assisted C++ unit test generator",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			loadDotEnv()
			configureLogger(logFileFlag, verboseFlag || viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "debug logging and revision diffs")
	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, "", "log file path (default from config)")

	cmd.PersistentFlags().String(storeFlagName, viper.GetString(storeDirConfigKey), "directory of the run report store")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(storeFlagName), storeDirConfigKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

// app holds the dependencies one command invocation needs.
type app struct {
	workflow domain.Workflow
	store    adapter.ReportStore
	registry *prometheus.Registry
}

func (a *app) Close() {
	if a.store == nil {
		return
	}

	if err := a.store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to close report store: %v\n", err)
	}
}

// appOptions select the optional dependencies of an app.
type appOptions struct {
	withStore bool
}

// workflowOverride replaces the wired workflow when set. Tests use it.
var workflowOverride domain.Workflow

// newApp wires adapters, domain services and the UI from the current
// configuration.
func newApp(cmd *cobra.Command, opts appOptions) (*app, error) {
	if workflowOverride != nil {
		return &app{workflow: workflowOverride, registry: prometheus.NewRegistry()}, nil
	}

	fs := adapter.NewLocalSourceFSAdapter()
	tools := adapter.NewLocalToolchainAdapter()
	ui := controller.NewUI(cmd, controller.IsTTY(os.Stdout), verboseFlag)

	a := &app{registry: prometheus.NewRegistry()}

	if opts.withStore {
		store, err := adapter.OpenBadgerReportStore(m.Path(viper.GetString(storeDirConfigKey)))
		if err != nil {
			return nil, err
		}

		a.store = store
	}

	metrics := domain.NewMetrics(a.registry)
	providerCfg := providerConfigFromEnv()
	modelTimeout := durationSetting(modelTimeoutKey, domain.DefaultModelTimeout)

	clients := func(model m.LLMModel) (domain.ModelClient, error) {
		provider, err := adapter.NewProvider(model, providerCfg)
		if err != nil {
			return nil, err
		}

		return domain.NewModelClient(provider, modelTimeout), nil
	}

	analyzer := domain.NewAnalyzer()
	validator := domain.NewBuildValidator(fs, tools, buildConfigFromConfig())
	orchestrator := domain.NewOrchestrator(
		analyzer,
		domain.NewPromptBuilder(),
		clients,
		validator,
		retryPolicyFromConfig(),
		domain.WithMetrics(metrics),
		domain.WithLogSpill(os.TempDir()),
	)

	engineOpts := []domain.EngineOption{domain.WithEngineMetrics(metrics)}
	if a.store != nil {
		engineOpts = append(engineOpts, domain.WithReportStore(a.store))
	}

	engine := domain.NewEngine(orchestrator, domain.EngineConfig{
		MaxConcurrentRuns: viper.GetInt(parallelConfigKey),
	}, engineOpts...)

	a.workflow = domain.NewWorkflow(fs, a.store, ui, analyzer, validator, engine)

	return a, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
