package application

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/calder-ml/prefbench/internal/domain"
	"github.com/calder-ml/prefbench/internal/ports"
)

// ScorerJudge adapts a batch reward scorer to the pairwise judge contract.
// Both sides of a pair-batch are scored before the result returns, so the
// next batch is never formed while this one is in flight; the two sides run
// concurrently since they are independent requests.
type ScorerJudge struct {
	scorer ports.RewardScorer
}

var _ ports.PairwiseJudge = (*ScorerJudge)(nil)

// NewScorerJudge wraps a reward scorer as a pairwise judge.
func NewScorerJudge(scorer ports.RewardScorer) *ScorerJudge {
	return &ScorerJudge{scorer: scorer}
}

// JudgeBatch scores the chosen side and the rejected side of the batch and
// zips the two score lists by batch-relative index.
func (j *ScorerJudge) JudgeBatch(ctx context.Context, pairs []domain.FormattedPair) ([]domain.ScorePair, error) {
	chosenTexts := make([]string, len(pairs))
	rejectedTexts := make([]string, len(pairs))
	for i, pair := range pairs {
		chosenTexts[i] = pair.TextChosen
		rejectedTexts[i] = pair.TextRejected
	}

	var chosenScores, rejectedScores []float64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		scores, err := j.scorer.ScoreBatch(gctx, chosenTexts)
		if err != nil {
			return fmt.Errorf("scoring chosen side: %w", err)
		}
		chosenScores = scores
		return nil
	})
	g.Go(func() error {
		scores, err := j.scorer.ScoreBatch(gctx, rejectedTexts)
		if err != nil {
			return fmt.Errorf("scoring rejected side: %w", err)
		}
		rejectedScores = scores
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return domain.ZipScores(chosenScores, rejectedScores)
}

// Model returns the underlying scorer's model identifier.
func (j *ScorerJudge) Model() string { return j.scorer.Model() }
