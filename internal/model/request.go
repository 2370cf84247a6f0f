package model

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// LLMModel is one of the enumerated provider/model identifiers.
type LLMModel string

// Supported models.
const (
	ModelOllamaLlama     LLMModel = "ollama/llama3.2"
	ModelOllamaCodeLlama LLMModel = "ollama/codellama"
	ModelGitHubCopilot   LLMModel = "github/copilot"
	ModelOpenAIGPT4      LLMModel = "openai/gpt-4"
)

// Provider returns the provider half of the identifier ("ollama", "openai", ...).
func (m LLMModel) Provider() string {
	provider, _, _ := strings.Cut(string(m), "/")
	return provider
}

// Name returns the model half of the identifier.
func (m LLMModel) Name() string {
	_, name, _ := strings.Cut(string(m), "/")
	return name
}

// TestFramework is the target C++ unit test framework.
type TestFramework string

// Supported frameworks.
const (
	FrameworkGoogleTest TestFramework = "google_test"
	FrameworkCatch2     TestFramework = "catch2"
	FrameworkDoctest    TestFramework = "doctest"
)

// DisplayName returns the framework's conventional name.
func (f TestFramework) DisplayName() string {
	switch f {
	case FrameworkGoogleTest:
		return "GoogleTest"
	case FrameworkCatch2:
		return "Catch2"
	case FrameworkDoctest:
		return "doctest"
	}

	return string(f)
}

// Request defaults, as the upload API applied them.
const (
	DefaultModel             = ModelOllamaLlama
	DefaultFramework         = FrameworkGoogleTest
	DefaultCoverageThreshold = 0.8
)

// GenerationRequest configures one orchestration run. It is immutable once the
// run starts; the orchestrator only ever reads it.
type GenerationRequest struct {
	Model                   LLMModel      `json:"llm_model" validate:"required,oneof=ollama/llama3.2 ollama/codellama github/copilot openai/gpt-4"`
	Framework               TestFramework `json:"test_framework" validate:"required,oneof=google_test catch2 doctest"`
	CoverageThreshold       float64       `json:"coverage_threshold" validate:"gte=0,lte=1"`
	GenerateMocks           bool          `json:"generate_mocks"`
	IncludeIntegrationTests bool          `json:"include_integration_tests"`
}

// DefaultGenerationRequest returns a request populated with the defaults.
func DefaultGenerationRequest() GenerationRequest {
	return GenerationRequest{
		Model:             DefaultModel,
		Framework:         DefaultFramework,
		CoverageThreshold: DefaultCoverageThreshold,
		GenerateMocks:     true,
	}
}

var (
	requestValidate     *validator.Validate
	requestValidateOnce sync.Once
)

// Validate checks the request against the enumerated model and framework sets
// and the [0,1] threshold range.
func (r GenerationRequest) Validate() error {
	requestValidateOnce.Do(func() {
		requestValidate = validator.New(validator.WithRequiredStructEnabled())
	})

	if err := requestValidate.Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("invalid generation request: field %s fails %q (got %v)", fe.Field(), fe.Tag(), fe.Value())
		}

		return fmt.Errorf("invalid generation request: %w", err)
	}

	return nil
}
