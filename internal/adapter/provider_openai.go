package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	m "testsmith.dev/pkg/testsmith/internal/model"
)

// OpenAIProvider serves any OpenAI-compatible chat completion endpoint:
// api.openai.com for openai/gpt-4 and GitHub Models for github/copilot.
type OpenAIProvider struct {
	name        string
	model       string
	temperature float32
	maxTokens   int
	client      *openai.Client
}

// NewOpenAIProvider constructs a provider. An empty baseURL keeps the
// library's default endpoint.
func NewOpenAIProvider(name, token, baseURL, model string, cfg ProviderConfig) *OpenAIProvider {
	config := openai.DefaultConfig(token)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}

	return &OpenAIProvider{
		name:        name,
		model:       model,
		temperature: temperature,
		maxTokens:   cfg.MaxTokens,
		client:      openai.NewClientWithConfig(config),
	}
}

// Name returns "<provider>/<model>".
func (p *OpenAIProvider) Name() string {
	return p.name + "/" + p.model
}

// Invoke sends the prompt as a system + user chat completion.
func (p *OpenAIProvider) Invoke(ctx context.Context, prompt m.Prompt) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if prompt.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: prompt.System})
	}

	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt.User})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		return "", NewProviderError(p.Name(), p.classify(ctx, err), err)
	}

	if len(resp.Choices) == 0 {
		return "", NewProviderError(p.Name(), ErrKindMalformedResponse, errors.New("no choices returned"))
	}

	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) classify(ctx context.Context, err error) ProviderErrorKind {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode)
	}

	return classifyTransport(ctx, fmt.Errorf("openai transport: %w", err))
}
