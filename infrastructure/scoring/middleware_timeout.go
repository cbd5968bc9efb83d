package scoring

import (
	"context"
	"time"
)

// timeoutScorer enforces a per-batch timeout so a stalled backend cannot
// hang an entire benchmark run.
type timeoutScorer struct {
	next    CoreScorer
	timeout time.Duration
}

// TimeoutMiddleware creates middleware that enforces per-batch timeouts.
// A batch that does not complete within the timeout fails with a context
// deadline exceeded error.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next CoreScorer) CoreScorer {
		return &timeoutScorer{
			next:    next,
			timeout: timeout,
		}
	}
}

// ScoreTexts executes the batch with a timeout context.
func (t *timeoutScorer) ScoreTexts(ctx context.Context, texts []string) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.ScoreTexts(ctx, texts)
}

// GetModel returns the model name from the wrapped implementation.
func (t *timeoutScorer) GetModel() string { return t.next.GetModel() }
