package scoring

import (
	"context"
	"fmt"
)

// DefaultChatMaxTokens bounds judge responses. Judges answer with a short
// JSON object or a single label, so the cap stays small.
const DefaultChatMaxTokens = 256

// ChatRequest is one completion request to a hosted chat model.
type ChatRequest struct {
	// Prompt is the user-turn content.
	Prompt string
	// System is the system-role persona, empty for none.
	System string
	// MaxTokens caps the response length. Zero selects DefaultChatMaxTokens.
	MaxTokens int
	// Temperature controls sampling randomness. Judges run at zero for
	// reproducible verdicts.
	Temperature float64
}

// ChatCompleter is the minimal chat interface generative judges are built
// on. Each hosted backend provides one implementation.
type ChatCompleter interface {
	// Complete sends one chat completion request and returns the
	// response text.
	Complete(ctx context.Context, req ChatRequest) (string, error)

	// GetModel returns the configured model identifier.
	GetModel() string
}

// ChatFactory creates a ChatCompleter implementation from configuration.
type ChatFactory func(ScorerConfig) (ChatCompleter, error)

// Chat backend registry. Hosted backends register themselves at init time.
var chatFactories = map[string]ChatFactory{}

// RegisterChatFactory registers a chat backend under a name usable with
// NewChatCompleter.
func RegisterChatFactory(backend string, factory ChatFactory) {
	chatFactories[backend] = factory
}

// NewChatCompleter creates a chat client for the named hosted backend.
func NewChatCompleter(backend string, config ScorerConfig) (ChatCompleter, error) {
	factory, ok := chatFactories[backend]
	if !ok {
		return nil, fmt.Errorf("unknown chat backend: %s", backend)
	}
	return factory(config)
}
