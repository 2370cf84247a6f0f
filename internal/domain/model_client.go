package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"

	"testsmith.dev/pkg/testsmith/internal/adapter"
	m "testsmith.dev/pkg/testsmith/internal/model"
)

// DefaultModelTimeout bounds one model invocation.
const DefaultModelTimeout = 5 * time.Minute

// ModelClient asks the model for test files and classifies failures as
// *adapter.ProviderError. Cancellation of ctx is returned as ctx.Err().
type ModelClient interface {
	Name() string
	Ask(ctx context.Context, prompt m.Prompt, files []m.SourceFile) ([]m.GeneratedTest, error)
}

// deadlineRunner runs fn under a deadline.
type deadlineRunner interface {
	Execute(ctx context.Context, d time.Duration, fn func(context.Context) (string, error)) (string, error)
}

type modelClient struct {
	provider adapter.ModelProvider
	timeout  time.Duration
	guard    deadlineRunner
}

// NewModelClient wraps provider with a per-invocation timeout.
func NewModelClient(provider adapter.ModelProvider, limit time.Duration) ModelClient {
	if limit <= 0 {
		limit = DefaultModelTimeout
	}

	return &modelClient{
		provider: provider,
		timeout:  limit,
		guard:    timeout.New[string](timeout.Config{DefaultTimeout: limit}),
	}
}

func (c *modelClient) Name() string {
	return c.provider.Name()
}

func (c *modelClient) Ask(ctx context.Context, prompt m.Prompt, files []m.SourceFile) ([]m.GeneratedTest, error) {
	start := time.Now()

	text, err := c.guard.Execute(ctx, c.timeout, func(ctx context.Context) (string, error) {
		return c.provider.Invoke(ctx, prompt)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		perr := c.classify(err, time.Since(start))
		slog.Warn("Model invocation failed", "provider", c.provider.Name(), "stage", prompt.Stage, "kind", perr.Kind, "error", err)

		return nil, perr
	}

	if strings.TrimSpace(text) == "" {
		return nil, adapter.NewProviderError(c.provider.Name(), adapter.ErrKindMalformedResponse, errors.New("empty response"))
	}

	tests := ParseTestFiles(text, files)
	if len(tests) == 0 {
		return nil, adapter.NewProviderError(c.provider.Name(), adapter.ErrKindMalformedResponse,
			fmt.Errorf("no %s blocks in response", TestFileStart))
	}

	return tests, nil
}

func (c *modelClient) classify(err error, elapsed time.Duration) *adapter.ProviderError {
	var perr *adapter.ProviderError
	if errors.As(err, &perr) {
		return perr
	}

	if errors.Is(err, context.DeadlineExceeded) || elapsed >= c.timeout {
		return adapter.NewProviderError(c.provider.Name(), adapter.ErrKindTimeout, err)
	}

	return adapter.NewProviderError(c.provider.Name(), adapter.ErrKindUnavailable, err)
}

// ProviderErrorKind extracts the failure kind of err, if it is a provider error.
func ProviderErrorKind(err error) (adapter.ProviderErrorKind, bool) {
	var perr *adapter.ProviderError
	if errors.As(err, &perr) {
		return perr.Kind, true
	}

	return "", false
}

// IsRetryable reports whether err is a provider failure worth retrying.
func IsRetryable(err error) bool {
	var perr *adapter.ProviderError
	return errors.As(err, &perr) && perr.Retryable()
}
