// Package scoring provides reward-model scoring clients with built-in
// support for retries, rate limiting, timeouts, metrics, and tracing.
//
// The package abstracts several scoring backends behind a common interface:
// an HTTP classifier inference server and hosted chat models (OpenAI,
// Anthropic, Google) acting as generative judges. Cross-cutting concerns are
// composed through a middleware pattern, so callers can add operational
// features without changing scoring code.
//
// Basic usage:
//
//	scorer, err := scoring.NewScorer("http", scoring.ScorerConfig{
//	    Endpoint:  "http://localhost:8080/score",
//	    Model:     "OpenAssistant/reward-model-deberta-v3-large-v2",
//	    MaxLength: 512,
//	})
//	scores, err := scorer.ScoreBatch(ctx, texts)
//
// With middleware:
//
//	scorer, err := scoring.NewScorer("http", scoring.ScorerConfig{
//	    Endpoint: "http://localhost:8080/score",
//	    Model:    "OpenAssistant/reward-model-deberta-v3-large-v2",
//	    Middleware: []scoring.Middleware{
//	        scoring.RetryMiddleware(3, time.Second, 30*time.Second),
//	        scoring.RateLimitMiddleware(10, 20),
//	    },
//	})
//
// Hosted chat models score through NewRatingJudge instead, which rates each
// text individually.
package scoring

import (
	"context"
	"fmt"

	"github.com/calder-ml/prefbench/internal/ports"
)

// CoreScorer is the minimal interface scoring backends must implement.
// Middleware wraps any conforming implementation, so resilience and
// observability features compose independently of the backend.
type CoreScorer interface {
	// ScoreTexts returns one scalar score per input text, index-aligned
	// with texts. An error means no scores are usable.
	ScoreTexts(ctx context.Context, texts []string) ([]float64, error)

	// GetModel returns the configured model identifier.
	GetModel() string
}

// ScorerConfig holds configuration for creating a scorer.
type ScorerConfig struct {
	// Endpoint is the scoring server URL for the http backend, or an API
	// base URL override for hosted backends. Leave empty for provider
	// defaults.
	Endpoint string

	// APIKey authenticates requests to hosted backends. The http backend
	// sends it as a bearer token when present.
	APIKey string

	// Model is the model identifier scores are attributed to.
	Model string

	// MaxLength caps each text at this many tokens before scoring.
	// Zero disables truncation.
	MaxLength int

	// MaxConcurrency bounds in-flight requests for backends that score
	// texts individually. Zero selects a backend default.
	MaxConcurrency int

	// TrustRemoteCode is forwarded to inference servers that gate custom
	// model code behind an opt-in.
	TrustRemoteCode bool

	// Middleware is applied in the order given, first entry outermost.
	Middleware []Middleware
}

// Middleware wraps a CoreScorer to add cross-cutting functionality such as
// retries, rate limiting, or metrics collection.
type Middleware func(CoreScorer) CoreScorer

// Scorer adapts a middleware-wrapped CoreScorer to the ports.RewardScorer
// contract consumed by the application layer.
type Scorer struct{ core CoreScorer }

var _ ports.RewardScorer = (*Scorer)(nil)

// NewScorer creates a scorer for the named backend, assembles the middleware
// chain, and validates configuration.
func NewScorer(backend string, config ScorerConfig) (*Scorer, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	factory, ok := scorerFactories[backend]
	if !ok {
		return nil, fmt.Errorf("unknown scoring backend: %s", backend)
	}

	core, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s scorer: %w", backend, err)
	}

	return WrapScorer(core, config.Middleware), nil
}

// WrapScorer applies the middleware chain to core and adapts the result to
// the ports.RewardScorer contract. Middleware is applied in reverse order so
// the first entry is the outermost.
func WrapScorer(core CoreScorer, middleware []Middleware) *Scorer {
	for i := len(middleware) - 1; i >= 0; i-- {
		core = middleware[i](core)
	}
	return &Scorer{core: core}
}

// ScoreBatch scores a batch of formatted texts.
func (s *Scorer) ScoreBatch(ctx context.Context, texts []string) ([]float64, error) {
	return s.core.ScoreTexts(ctx, texts)
}

// Model returns the model identifier from the underlying backend.
func (s *Scorer) Model() string { return s.core.GetModel() }

// ScorerFactory creates a CoreScorer implementation from configuration.
type ScorerFactory func(ScorerConfig) (CoreScorer, error)

// Backend factory registry. Backends register themselves at init time.
var scorerFactories = map[string]ScorerFactory{}

// RegisterScorerFactory registers a scoring backend under a name usable with
// NewScorer. Registering an existing name replaces the previous factory.
func RegisterScorerFactory(backend string, factory ScorerFactory) {
	scorerFactories[backend] = factory
}
