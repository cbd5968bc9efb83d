package scoring

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// GoogleDefaultModel is used when no model is configured for the google
// backend.
const GoogleDefaultModel = "gemini-2.0-flash-exp"

func init() {
	RegisterChatFactory("google", newGoogleChat)
}

// googleChat implements ChatCompleter for Google's Gemini API. Gemini has
// no separate system role, so the system persona is prepended to the user
// prompt in a structured format.
type googleChat struct {
	client          *genai.Client
	model           string
	errorClassifier *ErrorClassifier
}

var _ ChatCompleter = (*googleChat)(nil)

// newGoogleChat creates a chat client for Google's Gemini API.
func newGoogleChat(config ScorerConfig) (ChatCompleter, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	model := config.Model
	if model == "" {
		model = GoogleDefaultModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Google client: %w", err)
	}

	return &googleChat{
		client:          client,
		model:           model,
		errorClassifier: &ErrorClassifier{Backend: "google"},
	}, nil
}

// Complete sends one generation request to the Gemini API and returns the
// response text.
func (p *googleChat) Complete(ctx context.Context, req ChatRequest) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultChatMaxTokens
	}

	prompt := req.Prompt
	if req.System != "" {
		prompt = fmt.Sprintf("System: %s\n\nUser: %s", req.System, req.Prompt)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: int32(maxTokens),
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, genConfig)
	if err != nil {
		return "", p.handleError(err)
	}

	content := resp.Text()
	if content == "" {
		return "", ErrEmptyResponse
	}

	return content, nil
}

// GetModel returns the configured model identifier.
func (p *googleChat) GetModel() string { return p.model }

// handleError classifies and wraps errors from the Google API, including
// content-policy blocks, which are surfaced with their own type so runs
// can distinguish them from infrastructure failures.
func (p *googleChat) handleError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return p.errorClassifier.ClassifyContextError(err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" && len(apiErr.Errors) > 0 {
			message = apiErr.Errors[0].Message
		}

		if containsContentPolicyError(apiErr) {
			return NewBackendError("google", ErrorTypeContentPolicy, apiErr.Code,
				"request blocked by safety filters", err)
		}

		return p.errorClassifier.ClassifyHTTPError(apiErr.Code, message, err)
	}

	return NewBackendError("google", ErrorTypeUnknown, 0, "request failed", err)
}

// containsContentPolicyError checks if a Google API error is related to
// content policy violations.
func containsContentPolicyError(apiErr *googleapi.Error) bool {
	if apiErr.Message != "" {
		lower := strings.ToLower(apiErr.Message)
		if strings.Contains(lower, "safety") ||
			strings.Contains(lower, "policy") ||
			strings.Contains(lower, "blocked") {
			return true
		}
	}

	for _, e := range apiErr.Errors {
		if e.Reason == "SAFETY" || e.Reason == "BLOCKED" {
			return true
		}
	}

	return false
}
