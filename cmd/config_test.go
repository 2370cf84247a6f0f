package cmd

import (
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testsmith.dev/pkg/testsmith/internal/adapter"
	"testsmith.dev/pkg/testsmith/internal/domain"
	m "testsmith.dev/pkg/testsmith/internal/model"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "testsmith", configBaseName)
	assert.Equal(t, "testsmith.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "parallel", parallelFlagName)
	assert.Equal(t, "run.parallel", parallelConfigKey)
	assert.Equal(t, "TESTSMITH", envPrefix)
	assert.Equal(t, ".testsmith/reports", defaultStoreDir)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

// withViperValue overrides key for the duration of the test.
func withViperValue(t *testing.T, key string, value interface{}) {
	t.Helper()

	previous := viper.Get(key)
	viper.Set(key, value)
	t.Cleanup(func() { viper.Set(key, previous) })
}

func TestConfigDefaults(t *testing.T) {
	assert.Equal(t, string(m.DefaultModel), viper.GetString(modelConfigKey))
	assert.Equal(t, string(m.DefaultFramework), viper.GetString(frameworkConfigKey))
	assert.InDelta(t, m.DefaultCoverageThreshold, viper.GetFloat64(thresholdConfigKey), 1e-9)
	assert.True(t, viper.GetBool(mocksConfigKey))
	assert.False(t, viper.GetBool(integrationConfigKey))
	assert.Equal(t, domain.DefaultMaxConcurrentRuns, viper.GetInt(parallelConfigKey))
	assert.Equal(t, domain.ToolchainCMake, viper.GetString(toolchainConfigKey))
}

func TestGenerationRequestFromConfig(t *testing.T) {
	withViperValue(t, modelConfigKey, "openai/gpt-4")
	withViperValue(t, frameworkConfigKey, "catch2")
	withViperValue(t, thresholdConfigKey, 0.6)
	withViperValue(t, integrationConfigKey, true)

	req := generationRequestFromConfig()

	assert.Equal(t, m.ModelOpenAIGPT4, req.Model)
	assert.Equal(t, m.FrameworkCatch2, req.Framework)
	assert.InDelta(t, 0.6, req.CoverageThreshold, 1e-9)
	assert.True(t, req.IncludeIntegrationTests)
	require.NoError(t, req.Validate())
}

func TestRetryPolicyFromConfig(t *testing.T) {
	withViperValue(t, maxBuildFixesConfigKey, 0)
	withViperValue(t, maxRefinementsConfigKey, 5)
	withViperValue(t, backoffBaseKey, "250ms")
	withViperValue(t, backoffMaxKey, "3")

	policy := retryPolicyFromConfig()

	assert.Equal(t, 0, policy.MaxBuildFixes)
	assert.Equal(t, 5, policy.MaxRefinements)
	assert.Equal(t, 250*time.Millisecond, policy.BackoffBase)
	assert.Equal(t, 3*time.Second, policy.BackoffMax)
}

func TestDurationSetting(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  time.Duration
	}{
		{"go duration", "90s", 90 * time.Second},
		{"seconds", "45", 45 * time.Second},
		{"fractional seconds", "1.5", 1500 * time.Millisecond},
		{"invalid falls back", "soon", time.Minute},
		{"empty falls back", "", time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withViperValue(t, "test.duration", tt.value)
			assert.Equal(t, tt.want, durationSetting("test.duration", time.Minute))
		})
	}
}

func TestProviderConfigFromEnv(t *testing.T) {
	t.Setenv(githubTokenEnv, "ghp_token")
	t.Setenv(endpointEnv, "https://models.example.test")
	t.Setenv(modelNameEnv, "gpt-4o-mini")
	t.Setenv(openAIKeyEnv, "sk-test")
	t.Setenv(ollamaHostEnv, "http://ollama.internal:11434")

	cfg := providerConfigFromEnv()

	assert.Equal(t, "ghp_token", cfg.GitHubToken)
	assert.Equal(t, "https://models.example.test", cfg.Endpoint)
	assert.Equal(t, "gpt-4o-mini", cfg.CopilotModel)
	assert.Equal(t, "sk-test", cfg.OpenAIKey)
	assert.Equal(t, "http://ollama.internal:11434", cfg.OllamaHost)
	assert.Equal(t, adapter.DefaultMaxTokens, cfg.MaxTokens)
	assert.InDelta(t, adapter.DefaultTemperature, cfg.Temperature, 1e-6)
}

func TestBuildConfigFromConfig(t *testing.T) {
	withViperValue(t, toolchainConfigKey, domain.ToolchainCXX)
	withViperValue(t, cxxConfigKey, "clang++")
	withViperValue(t, buildTimeoutKey, "10s")

	cfg := buildConfigFromConfig()

	assert.Equal(t, domain.ToolchainCXX, cfg.Toolchain)
	assert.Equal(t, "clang++", cfg.CXX)
	assert.Equal(t, 10*time.Second, cfg.BuildTimeout)
	assert.Equal(t, domain.DefaultConfigureTimeout, cfg.ConfigureTimeout)
}

func TestParseSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseSlogLevel("debug", slog.LevelInfo))
	assert.Equal(t, slog.LevelWarn, parseSlogLevel(" WARNING ", slog.LevelInfo))
	assert.Equal(t, slog.LevelError, parseSlogLevel("error", slog.LevelInfo))
	assert.Equal(t, slog.Level(-4), parseSlogLevel("-4", slog.LevelInfo))
	assert.Equal(t, slog.LevelInfo, parseSlogLevel("", slog.LevelInfo))
	assert.Equal(t, slog.LevelWarn, parseSlogLevel("loud", slog.LevelWarn))
}
