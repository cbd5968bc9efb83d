package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChatCompleterUnknownBackend(t *testing.T) {
	_, err := NewChatCompleter("smoke-signals", ScorerConfig{Model: "m"})
	assert.ErrorContains(t, err, "unknown chat backend")
}

func TestHostedBackendsRequireAPIKey(t *testing.T) {
	for _, backend := range []string{"openai", "anthropic", "google"} {
		t.Run(backend, func(t *testing.T) {
			_, err := NewChatCompleter(backend, ScorerConfig{Model: "m"})
			assert.ErrorIs(t, err, ErrEmptyAPIKey)

			// The rating judge builds on the same chat clients and must
			// fail the same way.
			_, err = NewRatingJudge(backend, ScorerConfig{Model: "m"})
			assert.ErrorIs(t, err, ErrEmptyAPIKey)
		})
	}
}

func TestHostedBackendDefaultModels(t *testing.T) {
	openaiChat, err := NewChatCompleter("openai", ScorerConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, OpenAIDefaultModel, openaiChat.GetModel())

	anthropicChat, err := NewChatCompleter("anthropic", ScorerConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, AnthropicDefaultModel, anthropicChat.GetModel())
}
