package cmd

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"testsmith.dev/pkg/testsmith/internal/domain"
)

const generateLongDescription = `Generate unit tests for the given project directories.

Each project is analyzed, sent to the selected model, compiled with the
selected framework, and refined or repaired within the configured budgets.
Final responses are kept in the report store for "testsmith show".

` + pathArgsHelp

// generateCmd represents the generate command.
var generateCmd = newGenerateCmd()

func newGenerateCmd() *cobra.Command {
	loadConfig()

	cmd := &cobra.Command{
		Use:   "generate [dirs...]",
		Short: "Generate unit tests for C++ sources",
		Long:  generateLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, appOptions{withStore: true})
			if err != nil {
				return err
			}
			defer a.Close()

			if addr := viper.GetString(metricsAddrConfigKey); addr != "" {
				stop := serveMetrics(addr, a.registry)
				defer stop()
			}

			return a.workflow.Generate(commandContext(cmd), domain.GenerateArgs{
				Paths:   parsePaths(args),
				Request: generationRequestFromConfig(),
				Write:   viper.GetBool(writeConfigKey),
			})
		},
	}

	configureGenerateFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func configureGenerateFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.StringP(modelFlagName, "m", viper.GetString(modelConfigKey), "model: ollama/llama3.2, ollama/codellama, github/copilot, openai/gpt-4")
	bindFlagToConfig(flags.Lookup(modelFlagName), modelConfigKey)

	flags.StringP(frameworkFlagName, "f", viper.GetString(frameworkConfigKey), "test framework: google_test, catch2, doctest")
	bindFlagToConfig(flags.Lookup(frameworkFlagName), frameworkConfigKey)

	flags.Float64P(thresholdFlagName, "t", viper.GetFloat64(thresholdConfigKey), "required coverage in [0,1]")
	bindFlagToConfig(flags.Lookup(thresholdFlagName), thresholdConfigKey)

	flags.Bool(mocksFlagName, viper.GetBool(mocksConfigKey), "ask for mocks of external dependencies")
	bindFlagToConfig(flags.Lookup(mocksFlagName), mocksConfigKey)

	flags.Bool(integrationFlagName, viper.GetBool(integrationConfigKey), "ask for integration tests as well")
	bindFlagToConfig(flags.Lookup(integrationFlagName), integrationConfigKey)

	flags.Int(maxBuildFixesFlagName, viper.GetInt(maxBuildFixesConfigKey), "build-fix attempts per run")
	bindFlagToConfig(flags.Lookup(maxBuildFixesFlagName), maxBuildFixesConfigKey)

	flags.Int(maxRefinementsFlagName, viper.GetInt(maxRefinementsConfigKey), "refinement attempts per run")
	bindFlagToConfig(flags.Lookup(maxRefinementsFlagName), maxRefinementsConfigKey)

	flags.IntP(parallelFlagName, "p", viper.GetInt(parallelConfigKey), "maximum projects building at once")
	bindFlagToConfig(flags.Lookup(parallelFlagName), parallelConfigKey)

	flags.String(toolchainFlagName, viper.GetString(toolchainConfigKey), "toolchain: cmake or cxx")
	bindFlagToConfig(flags.Lookup(toolchainFlagName), toolchainConfigKey)

	flags.BoolP(writeFlagName, "w", viper.GetBool(writeConfigKey), "write the final tests into <dir>/tests")
	bindFlagToConfig(flags.Lookup(writeFlagName), writeConfigKey)

	flags.String(metricsAddrFlagName, viper.GetString(metricsAddrConfigKey), "serve Prometheus metrics on this address while running")
	bindFlagToConfig(flags.Lookup(metricsAddrFlagName), metricsAddrConfigKey)
}

// serveMetrics exposes reg on addr until the returned stop function is called.
func serveMetrics(addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to serve metrics", "addr", addr, "error", err)
		}
	}()

	return func() {
		if err := server.Close(); err != nil {
			slog.Error("Failed to stop metrics server", "error", err)
		}
	}
}
