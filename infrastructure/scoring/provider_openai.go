package scoring

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIDefaultModel is used when no model is configured for the openai
// backend.
const OpenAIDefaultModel = "gpt-4o"

func init() {
	RegisterChatFactory("openai", newOpenAIChat)
}

// openAIChat implements ChatCompleter for OpenAI's chat completions API.
// It handles OpenAI-specific request formatting and response parsing while
// conforming to the common interface the generative judges are built on.
type openAIChat struct {
	client          *openai.Client
	model           string
	errorClassifier *ErrorClassifier
}

var _ ChatCompleter = (*openAIChat)(nil)

// newOpenAIChat creates a chat client for OpenAI's API.
func newOpenAIChat(config ScorerConfig) (ChatCompleter, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	model := config.Model
	if model == "" {
		model = OpenAIDefaultModel
	}

	clientConfig := openai.DefaultConfig(config.APIKey)

	if config.Endpoint != "" {
		parsed, err := url.Parse(config.Endpoint)
		if err != nil || parsed.Host == "" {
			return nil, fmt.Errorf("invalid endpoint: %s", config.Endpoint)
		}
		clientConfig.BaseURL = parsed.String()
	}

	return &openAIChat{
		client:          openai.NewClientWithConfig(clientConfig),
		model:           model,
		errorClassifier: &ErrorClassifier{Backend: "openai"},
	}, nil
}

// Complete sends one chat completion request to the OpenAI API and returns
// the response text.
func (p *openAIChat) Complete(ctx context.Context, req ChatRequest) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultChatMaxTokens
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		return "", p.handleError(err)
	}

	if len(resp.Choices) == 0 {
		return "", NewBackendError("openai", ErrorTypeServerError, 0, "response contained no choices", nil)
	}

	return resp.Choices[0].Message.Content, nil
}

// GetModel returns the configured model identifier.
func (p *openAIChat) GetModel() string { return p.model }

// handleError classifies and wraps errors from the OpenAI API. Context
// errors, API errors, and generic failures each map to a classified
// BackendError so retry middleware can decide retryability.
func (p *openAIChat) handleError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return p.errorClassifier.ClassifyContextError(err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = "unknown error"
		}
		return p.errorClassifier.ClassifyHTTPError(apiErr.HTTPStatusCode, message, err)
	}

	return NewBackendError("openai", ErrorTypeUnknown, 0, "request failed", err)
}
