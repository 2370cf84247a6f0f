package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	m "testsmith.dev/pkg/testsmith/internal/model"
)

// ModelProvider is the single capability the core needs from a model backend.
// Invoke must honor ctx cancellation and deadlines.
type ModelProvider interface {
	Name() string
	Invoke(ctx context.Context, prompt m.Prompt) (string, error)
}

// ProviderErrorKind classifies model invocation failures.
type ProviderErrorKind string

// Failure kinds.
const (
	ErrKindTimeout           ProviderErrorKind = "timeout"
	ErrKindRateLimited       ProviderErrorKind = "rate_limited"
	ErrKindAuthFailure       ProviderErrorKind = "auth_failure"
	ErrKindUnavailable       ProviderErrorKind = "unavailable"
	ErrKindMalformedResponse ProviderErrorKind = "malformed_response"
)

// ProviderError is a classified provider failure. Err keeps the raw cause.
type ProviderError struct {
	Kind     ProviderErrorKind
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	}

	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure may succeed on a later attempt.
func (e *ProviderError) Retryable() bool {
	return e.Kind == ErrKindRateLimited || e.Kind == ErrKindUnavailable
}

// NewProviderError builds a ProviderError.
func NewProviderError(provider string, kind ProviderErrorKind, err error) *ProviderError {
	return &ProviderError{Kind: kind, Provider: provider, Err: err}
}

// ErrUnknownModel is returned by NewProvider for identifiers outside the
// enumerated model set.
var ErrUnknownModel = errors.New("unknown model")

// ProviderConfig carries provider endpoints and credentials.
type ProviderConfig struct {
	OllamaHost   string
	OpenAIKey    string
	OpenAIBase   string
	GitHubToken  string
	Endpoint     string
	CopilotModel string
	Temperature  float32
	MaxTokens    int
	HTTPTimeout  time.Duration
}

// Default provider settings.
const (
	DefaultOllamaHost   = "http://localhost:11434"
	DefaultGitHubModel  = "gpt-4o"
	DefaultTemperature  = 0.1
	DefaultMaxTokens    = 4000
	DefaultHTTPTimeout  = 5 * time.Minute
	defaultGitHubModels = "https://models.inference.ai.azure.com"
)

// NewProvider maps an enumerated model identifier onto a provider variant.
func NewProvider(model m.LLMModel, cfg ProviderConfig) (ModelProvider, error) {
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = DefaultHTTPTimeout
	}

	switch model {
	case m.ModelOllamaLlama, m.ModelOllamaCodeLlama:
		host := cfg.OllamaHost
		if host == "" {
			host = DefaultOllamaHost
		}

		return NewOllamaProvider(host, model.Name(), cfg.HTTPTimeout), nil
	case m.ModelOpenAIGPT4:
		if cfg.OpenAIKey == "" {
			return nil, NewProviderError("openai", ErrKindAuthFailure, errors.New("OPENAI_API_KEY is not set"))
		}

		return NewOpenAIProvider("openai", cfg.OpenAIKey, cfg.OpenAIBase, model.Name(), cfg), nil
	case m.ModelGitHubCopilot:
		if cfg.GitHubToken == "" {
			return nil, NewProviderError("github", ErrKindAuthFailure, errors.New("GITHUB_TOKEN is not set"))
		}

		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = defaultGitHubModels
		}

		name := cfg.CopilotModel
		if name == "" {
			name = DefaultGitHubModel
		}

		return NewOpenAIProvider("github", cfg.GitHubToken, endpoint, name, cfg), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownModel, model)
}

// classifyStatus maps an HTTP status code onto a failure kind.
func classifyStatus(code int) ProviderErrorKind {
	switch {
	case code == 401 || code == 403:
		return ErrKindAuthFailure
	case code == 408 || code == 504:
		return ErrKindTimeout
	case code == 429:
		return ErrKindRateLimited
	case code >= 500:
		return ErrKindUnavailable
	}

	return ErrKindMalformedResponse
}

// classifyTransport maps a transport error onto a failure kind.
func classifyTransport(ctx context.Context, err error) ProviderErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrKindTimeout
	}

	return ErrKindUnavailable
}
