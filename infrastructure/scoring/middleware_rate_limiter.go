package scoring

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// rateLimitedScorer implements rate limiting using a token bucket algorithm.
// This keeps long benchmark runs inside backend rate limits and ensures
// consistent request pacing.
type rateLimitedScorer struct {
	next    CoreScorer
	limiter *rate.Limiter
}

// RateLimitMiddleware creates middleware that enforces rate limiting using a
// token bucket algorithm. The limit parameter sets batch requests per
// second, while burst allows temporary spikes above the sustained rate.
func RateLimitMiddleware(limit rate.Limit, burst int) Middleware {
	limiter := rate.NewLimiter(limit, burst)

	return func(next CoreScorer) CoreScorer {
		return &rateLimitedScorer{
			next:    next,
			limiter: limiter,
		}
	}
}

// ScoreTexts waits for rate limit permission before forwarding the batch.
// This blocks the calling goroutine until a token is available.
func (r *rateLimitedScorer) ScoreTexts(ctx context.Context, texts []string) ([]float64, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return r.next.ScoreTexts(ctx, texts)
}

// GetModel returns the model name from the wrapped implementation.
func (r *rateLimitedScorer) GetModel() string { return r.next.GetModel() }
