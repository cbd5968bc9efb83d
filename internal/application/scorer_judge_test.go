package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calder-ml/prefbench/internal/domain"
	"github.com/calder-ml/prefbench/internal/testutils"
)

func TestScorerJudgeZipOrderAlignment(t *testing.T) {
	scores := map[string]float64{
		"c0": 0.9, "c1": 0.4, "c2": 0.7,
		"r0": 0.1, "r1": 0.6, "r2": 0.2,
	}
	scorer := &testutils.MockScorer{ScoreFunc: func(text string) float64 { return scores[text] }}
	judge := NewScorerJudge(scorer)

	pairs := []domain.FormattedPair{
		{TextChosen: "c0", TextRejected: "r0"},
		{TextChosen: "c1", TextRejected: "r1"},
		{TextChosen: "c2", TextRejected: "r2"},
	}

	got, err := judge.JudgeBatch(context.Background(), pairs)
	require.NoError(t, err)

	assert.Equal(t, []domain.ScorePair{
		{Chosen: 0.9, Rejected: 0.1},
		{Chosen: 0.4, Rejected: 0.6},
		{Chosen: 0.7, Rejected: 0.2},
	}, got)

	// Both sides of the batch were scored as whole batches, side by side.
	batches := scorer.Batches()
	require.Len(t, batches, 2)
	sides := map[string]bool{batches[0][0]: true, batches[1][0]: true}
	assert.True(t, sides["c0"] && sides["r0"], "one batch per side")
}

func TestScorerJudgePropagatesScorerError(t *testing.T) {
	scoreErr := errors.New("server down")
	judge := NewScorerJudge(&testutils.MockScorer{Err: scoreErr})

	_, err := judge.JudgeBatch(context.Background(), testutils.GenerateFormattedPairs(2))
	assert.ErrorIs(t, err, scoreErr)
}

func TestScorerJudgeModel(t *testing.T) {
	judge := NewScorerJudge(&testutils.MockScorer{ModelName: "rm-v2"})
	assert.Equal(t, "rm-v2", judge.Model())
}
