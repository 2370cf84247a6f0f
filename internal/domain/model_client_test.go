package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"testsmith.dev/pkg/testsmith/internal/adapter"
	adaptermocks "testsmith.dev/pkg/testsmith/internal/adapter/mocks"
	m "testsmith.dev/pkg/testsmith/internal/model"
)

const validResponse = "===TEST_FILE_START===\nfilename: test_math.cpp\nsource: math.cpp\ncovers: add\ncontent:\nTEST(Math, Add) {}\n===TEST_FILE_END===\n"

func TestModelClient_Ask(t *testing.T) {
	provider := adaptermocks.NewMockModelProvider(t)
	prompt := m.Prompt{Stage: m.StageInitialGeneration, User: "write tests"}

	provider.EXPECT().Invoke(mock.Anything, prompt).Return(validResponse, nil).Once()

	client := NewModelClient(provider, time.Second)
	tests, err := client.Ask(context.Background(), prompt, []m.SourceFile{{Path: "math.cpp"}})

	require.NoError(t, err)
	require.Len(t, tests, 1)
	assert.Equal(t, "test_math.cpp", tests[0].Filename)
	assert.Equal(t, []string{"add"}, tests[0].FunctionsTested)
}

func TestModelClient_MalformedResponses(t *testing.T) {
	for _, response := range []string{"", "   \n", "I cannot help with that."} {
		provider := adaptermocks.NewMockModelProvider(t)
		provider.EXPECT().Name().Return("ollama").Maybe()
		provider.EXPECT().Invoke(mock.Anything, mock.Anything).Return(response, nil).Once()

		_, err := NewModelClient(provider, time.Second).Ask(context.Background(), m.Prompt{}, nil)

		kind, ok := ProviderErrorKind(err)
		require.True(t, ok, "response %q", response)
		assert.Equal(t, adapter.ErrKindMalformedResponse, kind)
		assert.False(t, IsRetryable(err))
	}
}

func TestModelClient_KeepsProviderClassification(t *testing.T) {
	provider := adaptermocks.NewMockModelProvider(t)
	provider.EXPECT().Name().Return("openai").Maybe()
	provider.EXPECT().Invoke(mock.Anything, mock.Anything).
		Return("", adapter.NewProviderError("openai", adapter.ErrKindRateLimited, errors.New("429"))).Once()

	_, err := NewModelClient(provider, time.Second).Ask(context.Background(), m.Prompt{}, nil)

	kind, ok := ProviderErrorKind(err)
	require.True(t, ok)
	assert.Equal(t, adapter.ErrKindRateLimited, kind)
	assert.True(t, IsRetryable(err))
}

func TestModelClient_UnclassifiedErrorIsUnavailable(t *testing.T) {
	provider := adaptermocks.NewMockModelProvider(t)
	provider.EXPECT().Name().Return("ollama").Maybe()
	provider.EXPECT().Invoke(mock.Anything, mock.Anything).Return("", errors.New("connection refused")).Once()

	_, err := NewModelClient(provider, time.Second).Ask(context.Background(), m.Prompt{}, nil)

	kind, ok := ProviderErrorKind(err)
	require.True(t, ok)
	assert.Equal(t, adapter.ErrKindUnavailable, kind)
}

func TestModelClient_Timeout(t *testing.T) {
	provider := adaptermocks.NewMockModelProvider(t)
	provider.EXPECT().Name().Return("ollama").Maybe()
	provider.EXPECT().Invoke(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, _ m.Prompt) (string, error) {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Second):
				return "", errors.New("too late")
			}
		}).Once()

	_, err := NewModelClient(provider, 20*time.Millisecond).Ask(context.Background(), m.Prompt{}, nil)

	kind, ok := ProviderErrorKind(err)
	require.True(t, ok)
	assert.Equal(t, adapter.ErrKindTimeout, kind)
	assert.False(t, IsRetryable(err))
}

func TestModelClient_CallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	provider := adaptermocks.NewMockModelProvider(t)
	provider.EXPECT().Invoke(mock.Anything, mock.Anything).
		RunAndReturn(func(context.Context, m.Prompt) (string, error) {
			cancel()
			return "", errors.New("aborted")
		}).Once()

	_, err := NewModelClient(provider, time.Second).Ask(ctx, m.Prompt{}, nil)

	require.ErrorIs(t, err, context.Canceled)

	_, ok := ProviderErrorKind(err)
	assert.False(t, ok)
}

func TestProviderErrorKind_PlainError(t *testing.T) {
	_, ok := ProviderErrorKind(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsRetryable(nil))
}
