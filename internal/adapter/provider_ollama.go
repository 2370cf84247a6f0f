package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	m "testsmith.dev/pkg/testsmith/internal/model"
)

// OllamaProvider talks to a local Ollama server through /api/generate.
type OllamaProvider struct {
	host   string
	model  string
	client *http.Client
}

// NewOllamaProvider constructs an OllamaProvider for host and model.
func NewOllamaProvider(host, model string, timeout time.Duration) *OllamaProvider {
	return &OllamaProvider{
		host:   strings.TrimRight(host, "/"),
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

type ollamaRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	System  string         `json:"system,omitempty"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Name returns "ollama/<model>".
func (p *OllamaProvider) Name() string {
	return "ollama/" + p.model
}

// Invoke sends a non-streaming generate request.
func (p *OllamaProvider) Invoke(ctx context.Context, prompt m.Prompt) (string, error) {
	body, err := json.Marshal(ollamaRequest{
		Model:   p.model,
		Prompt:  prompt.User,
		System:  prompt.System,
		Stream:  false,
		Options: map[string]any{"temperature": DefaultTemperature},
	})
	if err != nil {
		return "", NewProviderError(p.Name(), ErrKindMalformedResponse, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", NewProviderError(p.Name(), ErrKindUnavailable, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", NewProviderError(p.Name(), classifyTransport(ctx, err), fmt.Errorf("failed to connect to ollama: %w", err))
	}

	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewProviderError(p.Name(), classifyTransport(ctx, err), err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", NewProviderError(p.Name(), classifyStatus(resp.StatusCode),
			fmt.Errorf("ollama status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))
	}

	var out ollamaResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", NewProviderError(p.Name(), ErrKindMalformedResponse, fmt.Errorf("failed to decode ollama response: %w", err))
	}

	if out.Error != "" {
		return "", NewProviderError(p.Name(), ErrKindUnavailable, fmt.Errorf("ollama: %s", out.Error))
	}

	return out.Response, nil
}
