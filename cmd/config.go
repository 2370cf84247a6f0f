package cmd

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"testsmith.dev/pkg/testsmith/internal/adapter"
	"testsmith.dev/pkg/testsmith/internal/domain"
	m "testsmith.dev/pkg/testsmith/internal/model"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "testsmith"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."
	envFileName      = ".env"

	verboseFlagName = "verbose"
	logFileFlagName = "log-file"

	modelFlagName          = "model"
	frameworkFlagName      = "framework"
	thresholdFlagName      = "threshold"
	mocksFlagName          = "mocks"
	integrationFlagName    = "integration"
	maxBuildFixesFlagName  = "max-build-fixes"
	maxRefinementsFlagName = "max-refinements"
	parallelFlagName       = "parallel"
	toolchainFlagName      = "toolchain"
	writeFlagName          = "write"
	metricsAddrFlagName    = "metrics-addr"
	storeFlagName          = "store"

	modelConfigKey          = "generate.model"
	frameworkConfigKey      = "generate.framework"
	thresholdConfigKey      = "generate.threshold"
	mocksConfigKey          = "generate.mocks"
	integrationConfigKey    = "generate.integration"
	writeConfigKey          = "generate.write"
	generationAttemptsKey   = "budget.generation_attempts"
	maxBuildFixesConfigKey  = "budget.max_build_fixes"
	maxRefinementsConfigKey = "budget.max_refinements"
	backoffBaseKey          = "budget.backoff_base"
	backoffMaxKey           = "budget.backoff_max"
	parallelConfigKey       = "run.parallel"
	metricsAddrConfigKey    = "run.metrics_addr"
	toolchainConfigKey      = "build.toolchain"
	cmakeConfigKey          = "build.cmake"
	cxxConfigKey            = "build.cxx"
	jobsConfigKey           = "build.jobs"
	fetchDepsConfigKey      = "build.fetch_deps"
	runTestsConfigKey       = "build.run_tests"
	configureTimeoutKey     = "build.configure_timeout"
	buildTimeoutKey         = "build.build_timeout"
	runTimeoutKey           = "build.run_timeout"
	modelTimeoutKey         = "provider.model_timeout"
	ollamaHostKey           = "provider.ollama_host"
	openAIBaseKey           = "provider.openai_base"
	copilotModelKey         = "provider.copilot_model"
	temperatureKey          = "provider.temperature"
	maxTokensKey            = "provider.max_tokens"
	storeDirConfigKey       = "store.dir"

	defaultStoreDir = ".testsmith/reports"

	envPrefix = "TESTSMITH"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".testsmith.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

// Provider credentials are read from the plain environment, as .env files
// conventionally name them.
const (
	githubTokenEnv = "GITHUB_TOKEN"
	endpointEnv    = "ENDPOINT"
	modelNameEnv   = "MODEL_NAME"
	openAIKeyEnv   = "OPENAI_API_KEY"
	ollamaHostEnv  = "OLLAMA_HOST"
)

var globalLogger *slog.Logger

var configOnce sync.Once

func init() {
	loadConfig()
}

// loadConfig sets defaults and reads testsmith.yaml once. Command
// constructors call it so flag defaults reflect the config file.
func loadConfig() {
	configOnce.Do(readConfig)
}

func readConfig() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return
		}

		slog.Warn("Failed to read config file", "file", configFileName, "error", err)
	}
}

func setDefaults() {
	req := m.DefaultGenerationRequest()
	policy := domain.DefaultRetryPolicy()
	build := domain.DefaultBuildConfig()

	viper.SetDefault(configVersionKey, currentConfigVersion)

	viper.SetDefault(modelConfigKey, string(req.Model))
	viper.SetDefault(frameworkConfigKey, string(req.Framework))
	viper.SetDefault(thresholdConfigKey, req.CoverageThreshold)
	viper.SetDefault(mocksConfigKey, req.GenerateMocks)
	viper.SetDefault(integrationConfigKey, req.IncludeIntegrationTests)
	viper.SetDefault(writeConfigKey, false)

	viper.SetDefault(generationAttemptsKey, policy.GenerationAttempts)
	viper.SetDefault(maxBuildFixesConfigKey, policy.MaxBuildFixes)
	viper.SetDefault(maxRefinementsConfigKey, policy.MaxRefinements)
	viper.SetDefault(backoffBaseKey, policy.BackoffBase.String())
	viper.SetDefault(backoffMaxKey, policy.BackoffMax.String())

	viper.SetDefault(parallelConfigKey, domain.DefaultMaxConcurrentRuns)
	viper.SetDefault(metricsAddrConfigKey, "")

	viper.SetDefault(toolchainConfigKey, build.Toolchain)
	viper.SetDefault(cmakeConfigKey, build.CMake)
	viper.SetDefault(cxxConfigKey, build.CXX)
	viper.SetDefault(jobsConfigKey, build.Jobs)
	viper.SetDefault(fetchDepsConfigKey, build.FetchDeps)
	viper.SetDefault(runTestsConfigKey, build.RunTests)
	viper.SetDefault(configureTimeoutKey, build.ConfigureTimeout.String())
	viper.SetDefault(buildTimeoutKey, build.BuildTimeout.String())
	viper.SetDefault(runTimeoutKey, build.RunTimeout.String())

	viper.SetDefault(modelTimeoutKey, domain.DefaultModelTimeout.String())
	viper.SetDefault(ollamaHostKey, adapter.DefaultOllamaHost)
	viper.SetDefault(openAIBaseKey, "")
	viper.SetDefault(copilotModelKey, adapter.DefaultGitHubModel)
	viper.SetDefault(temperatureKey, adapter.DefaultTemperature)
	viper.SetDefault(maxTokensKey, adapter.DefaultMaxTokens)

	viper.SetDefault(storeDirConfigKey, defaultStoreDir)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)
}

// loadDotEnv loads provider credentials from .env without overriding
// variables already set in the environment.
func loadDotEnv() {
	if err := godotenv.Load(envFileName); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env", "error", err)
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// durationSetting reads key as a Go duration string or a number of seconds.
func durationSetting(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(viper.GetString(key))
	if raw == "" {
		return fallback
	}

	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}

	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}

	slog.Warn("Invalid duration setting, using default", "key", key, "value", raw, "default", fallback)

	return fallback
}

func generationRequestFromConfig() m.GenerationRequest {
	return m.GenerationRequest{
		Model:                   m.LLMModel(viper.GetString(modelConfigKey)),
		Framework:               m.TestFramework(viper.GetString(frameworkConfigKey)),
		CoverageThreshold:       viper.GetFloat64(thresholdConfigKey),
		GenerateMocks:           viper.GetBool(mocksConfigKey),
		IncludeIntegrationTests: viper.GetBool(integrationConfigKey),
	}
}

func retryPolicyFromConfig() domain.RetryPolicy {
	defaults := domain.DefaultRetryPolicy()

	return domain.RetryPolicy{
		GenerationAttempts: viper.GetInt(generationAttemptsKey),
		MaxBuildFixes:      viper.GetInt(maxBuildFixesConfigKey),
		MaxRefinements:     viper.GetInt(maxRefinementsConfigKey),
		BackoffBase:        durationSetting(backoffBaseKey, defaults.BackoffBase),
		BackoffMax:         durationSetting(backoffMaxKey, defaults.BackoffMax),
	}
}

func buildConfigFromConfig() domain.BuildConfig {
	defaults := domain.DefaultBuildConfig()

	return domain.BuildConfig{
		Toolchain:        viper.GetString(toolchainConfigKey),
		CMake:            viper.GetString(cmakeConfigKey),
		CXX:              viper.GetString(cxxConfigKey),
		Jobs:             viper.GetInt(jobsConfigKey),
		FetchDeps:        viper.GetBool(fetchDepsConfigKey),
		RunTests:         viper.GetBool(runTestsConfigKey),
		ConfigureTimeout: durationSetting(configureTimeoutKey, defaults.ConfigureTimeout),
		BuildTimeout:     durationSetting(buildTimeoutKey, defaults.BuildTimeout),
		RunTimeout:       durationSetting(runTimeoutKey, defaults.RunTimeout),
	}
}

// providerConfigFromEnv merges config keys with the conventional credential
// variables. OLLAMA_HOST and MODEL_NAME override the config file when set.
func providerConfigFromEnv() adapter.ProviderConfig {
	cfg := adapter.ProviderConfig{
		OllamaHost:   viper.GetString(ollamaHostKey),
		OpenAIKey:    os.Getenv(openAIKeyEnv),
		OpenAIBase:   viper.GetString(openAIBaseKey),
		GitHubToken:  os.Getenv(githubTokenEnv),
		Endpoint:     os.Getenv(endpointEnv),
		CopilotModel: viper.GetString(copilotModelKey),
		Temperature:  float32(viper.GetFloat64(temperatureKey)),
		MaxTokens:    viper.GetInt(maxTokensKey),
		HTTPTimeout:  durationSetting(modelTimeoutKey, domain.DefaultModelTimeout),
	}

	if host := os.Getenv(ollamaHostEnv); host != "" {
		cfg.OllamaHost = host
	}

	if name := os.Getenv(modelNameEnv); name != "" {
		cfg.CopilotModel = name
	}

	return cfg
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
