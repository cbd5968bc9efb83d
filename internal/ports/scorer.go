// Package ports defines the interfaces between the application layer and
// infrastructure. Implementations live under infrastructure/; the
// application depends only on these contracts.
package ports

import "context"

// RewardScorer scores batches of formatted conversation texts with a reward
// model. Implementations wrap an inference server, a hosted chat model
// acting as a judge, or a test double.
type RewardScorer interface {
	// ScoreBatch returns one scalar score per input text, index-aligned
	// with texts. Implementations must either score every text or return
	// an error; partial results are not allowed because callers zip
	// chosen and rejected score lists by position.
	ScoreBatch(ctx context.Context, texts []string) ([]float64, error)

	// Model returns the model identifier scores are attributed to.
	Model() string
}
