package scoring

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// retryScorer implements automatic retry logic with exponential backoff.
// Transient backend failures are retried with increasing delays; errors the
// classifier marks non-retryable fail immediately.
type retryScorer struct {
	next       CoreScorer
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// RetryMiddleware creates middleware that automatically retries failed
// batches with exponential backoff. Batches are all-or-nothing, so a retry
// resubmits the whole batch.
func RetryMiddleware(maxRetries int, baseDelay, maxDelay time.Duration) Middleware {
	return func(next CoreScorer) CoreScorer {
		return &retryScorer{
			next:       next,
			maxRetries: maxRetries,
			baseDelay:  baseDelay,
			maxDelay:   maxDelay,
		}
	}
}

// ScoreTexts executes the batch with automatic retry logic, respecting
// error retryability classification and context cancellation.
func (r *retryScorer) ScoreTexts(ctx context.Context, texts []string) ([]float64, error) {
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		scores, err := r.next.ScoreTexts(ctx, texts)
		if err == nil {
			return scores, nil
		}

		lastErr = err

		if !isRetryable(err) || ctx.Err() != nil {
			break
		}

		if attempt == r.maxRetries {
			break
		}

		delay := r.calculateDelay(attempt)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
			// Continue to next attempt.
		}
	}

	return nil, fmt.Errorf("batch failed after %d attempts: %w", r.maxRetries+1, lastErr)
}

// isRetryable treats classified errors per their own retryability and
// unclassified errors as retryable, since they are most often transport
// failures that never reached the backend.
func isRetryable(err error) bool {
	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return backendErr.IsRetryable()
	}
	return true
}

func (r *retryScorer) calculateDelay(attempt int) time.Duration {
	// Exponential backoff with jitter.
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 30 {
		attempt = 30
	}
	// #nosec G115 - attempt is bounded between 0 and 30
	multiplier := 1 << uint(attempt)
	delay := time.Duration(float64(r.baseDelay) * float64(multiplier))

	// Add jitter (±25%)
	// #nosec G404 - Using weak RNG is acceptable for jitter calculation
	jitter := time.Duration(rand.Float64() * float64(delay) * 0.5)
	delay = delay + jitter - (delay / 4)

	if delay > r.maxDelay {
		delay = r.maxDelay
	}

	return delay
}

// GetModel returns the model name from the wrapped implementation.
func (r *retryScorer) GetModel() string { return r.next.GetModel() }
