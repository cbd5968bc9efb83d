// Package testutils provides deterministic test doubles and dataset
// generators shared by the package tests.
package testutils

import (
	"context"
	"sync"

	"github.com/calder-ml/prefbench/internal/domain"
	"github.com/calder-ml/prefbench/internal/ports"
)

// MockScorer is a deterministic RewardScorer test double. Scores come from
// ScoreFunc when set, otherwise every text scores 0. The mock records every
// batch it receives and is safe for concurrent use, since the benchmark
// runner scores both sides of a batch concurrently.
type MockScorer struct {
	// ModelName is returned by Model. Defaults to "mock-model" when empty.
	ModelName string

	// ScoreFunc maps one text to its score.
	ScoreFunc func(text string) float64

	// Err, when set, fails every batch.
	Err error

	mu      sync.Mutex
	batches [][]string
}

var _ ports.RewardScorer = (*MockScorer)(nil)

// ScoreBatch records the batch and returns one score per text.
func (m *MockScorer) ScoreBatch(_ context.Context, texts []string) ([]float64, error) {
	m.mu.Lock()
	batch := make([]string, len(texts))
	copy(batch, texts)
	m.batches = append(m.batches, batch)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	scores := make([]float64, len(texts))
	for i, text := range texts {
		if m.ScoreFunc != nil {
			scores[i] = m.ScoreFunc(text)
		}
	}
	return scores, nil
}

// Model returns the configured model name.
func (m *MockScorer) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

// Batches returns a copy of every batch scored so far, in arrival order.
func (m *MockScorer) Batches() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	batches := make([][]string, len(m.batches))
	copy(batches, m.batches)
	return batches
}

// MockJudge is a deterministic PairwiseJudge test double driven by
// JudgeFunc. When JudgeFunc is nil every pair scores chosen 1.0,
// rejected 0.0.
type MockJudge struct {
	// ModelName is returned by Model. Defaults to "mock-judge" when empty.
	ModelName string

	// JudgeFunc maps one pair to its score pair.
	JudgeFunc func(pair domain.FormattedPair) domain.ScorePair

	// Err, when set, fails every batch.
	Err error
}

var _ ports.PairwiseJudge = (*MockJudge)(nil)

// JudgeBatch returns one score pair per input pair.
func (m *MockJudge) JudgeBatch(_ context.Context, pairs []domain.FormattedPair) ([]domain.ScorePair, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	scores := make([]domain.ScorePair, len(pairs))
	for i, pair := range pairs {
		if m.JudgeFunc != nil {
			scores[i] = m.JudgeFunc(pair)
		} else {
			scores[i] = domain.ScorePair{Chosen: 1.0, Rejected: 0.0}
		}
	}
	return scores, nil
}

// Model returns the configured model name.
func (m *MockJudge) Model() string {
	if m.ModelName == "" {
		return "mock-judge"
	}
	return m.ModelName
}
