package ports

import (
	"context"

	"github.com/calder-ml/prefbench/internal/domain"
)

// PairwiseJudge scores both sides of a batch of preference pairs. The
// benchmark loop consumes this contract exclusively; how the scores are
// produced (a reward model scoring each side, or a generative judge
// choosing between them) is an implementation concern.
type PairwiseJudge interface {
	// JudgeBatch returns one score pair per input pair, index-aligned
	// with pairs. Implementations must either judge every pair or
	// return an error.
	JudgeBatch(ctx context.Context, pairs []domain.FormattedPair) ([]domain.ScorePair, error)

	// Model returns the model identifier scores are attributed to.
	Model() string
}
