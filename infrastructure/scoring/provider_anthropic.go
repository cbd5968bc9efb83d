package scoring

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicDefaultModel is used when no model is configured for the
// anthropic backend.
const AnthropicDefaultModel = "claude-3-5-sonnet-20241022"

func init() {
	RegisterChatFactory("anthropic", newAnthropicChat)
}

// anthropicChat implements ChatCompleter for Anthropic's Messages API.
type anthropicChat struct {
	client          anthropic.Client
	model           string
	errorClassifier *ErrorClassifier
}

var _ ChatCompleter = (*anthropicChat)(nil)

// newAnthropicChat creates a chat client for Anthropic's API.
func newAnthropicChat(config ScorerConfig) (ChatCompleter, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	model := config.Model
	if model == "" {
		model = AnthropicDefaultModel
	}

	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(config.Endpoint))
	}

	return &anthropicChat{
		client:          anthropic.NewClient(opts...),
		model:           model,
		errorClassifier: &ErrorClassifier{Backend: "anthropic"},
	}, nil
}

// Complete sends one message request to the Anthropic API and returns the
// concatenated text blocks of the response.
func (p *anthropicChat) Complete(ctx context.Context, req ChatRequest) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultChatMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
		Temperature: anthropic.Float(req.Temperature),
	}

	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", p.handleError(err)
	}

	var responseText strings.Builder
	for _, block := range message.Content {
		switch content := block.AsAny().(type) {
		case anthropic.TextBlock:
			responseText.WriteString(content.Text)
		}
	}

	response := responseText.String()
	if response == "" {
		return "", ErrEmptyResponse
	}

	return response, nil
}

// GetModel returns the configured model identifier.
func (p *anthropicChat) GetModel() string { return p.model }

// handleError classifies and wraps errors from the Anthropic SDK.
func (p *anthropicChat) handleError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return p.errorClassifier.ClassifyContextError(err)
	}

	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		return p.errorClassifier.ClassifyHTTPError(anthropicErr.StatusCode, "", err)
	}

	return NewBackendError("anthropic", ErrorTypeUnknown, 0, "request failed", err)
}
