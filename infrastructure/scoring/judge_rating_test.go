package scoring

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingScorerScoresInInputOrder(t *testing.T) {
	// Each text names its own score; the judge must keep index alignment
	// even under concurrent fan-out.
	chat := &mockChat{respond: func(req ChatRequest) (string, error) {
		for score := 1; score <= 10; score++ {
			if strings.Contains(req.Prompt, fmt.Sprintf("text scoring %d", score)) {
				return fmt.Sprintf(`{"score": %d}`, score), nil
			}
		}
		return "", errors.New("unknown text")
	}}

	scorer := NewRatingScorer(chat, 0, 3)

	texts := []string{"text scoring 7", "text scoring 2", "text scoring 9", "text scoring 4"}
	scores, err := scorer.ScoreTexts(context.Background(), texts)
	require.NoError(t, err)
	assert.Equal(t, []float64{7, 2, 9, 4}, scores)
	assert.Equal(t, "mock-judge", scorer.GetModel())

	for _, req := range chat.Requests() {
		assert.Zero(t, req.Temperature, "judges run at temperature zero")
	}
}

func TestRatingScorerFailsBatchOnSingleError(t *testing.T) {
	chatErr := errors.New("model overloaded")
	chat := &mockChat{respond: func(req ChatRequest) (string, error) {
		if strings.Contains(req.Prompt, "poison") {
			return "", chatErr
		}
		return `{"score": 5}`, nil
	}}

	_, err := NewRatingScorer(chat, 0, 2).ScoreTexts(context.Background(), []string{"fine", "poison", "fine"})
	assert.ErrorIs(t, err, chatErr)
}

func TestNewRatingJudgeAppliesMiddleware(t *testing.T) {
	// Middleware that swaps in a scripted core proves the chain wraps the
	// rating scorer rather than being dropped on this construction path.
	core := &mockCore{responses: []mockResponse{{scores: []float64{0.4, 0.6}}}}

	judge, err := NewRatingJudge("openai", ScorerConfig{
		APIKey:     "k",
		Model:      "gpt-4o",
		Middleware: []Middleware{func(CoreScorer) CoreScorer { return core }},
	})
	require.NoError(t, err)

	scores, err := judge.ScoreBatch(context.Background(), []string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.4, 0.6}, scores)
	assert.Equal(t, int32(1), core.calls.Load())
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     float64
		wantErr  bool
	}{
		{name: "strict json", response: `{"score": 8}`, want: 8},
		{name: "fractional score", response: `{"score": 7.5}`, want: 7.5},
		{name: "json with surrounding prose", response: `Sure! {"score": 3} Hope that helps.`, want: 3},
		{name: "fenced json", response: "```json\n{\"score\": 6}\n```", want: 6},
		{name: "fenced without language", response: "```\n{\"score\": 2}\n```", want: 2},
		{name: "score above scale", response: `{"score": 11}`, wantErr: true},
		{name: "score below scale", response: `{"score": 0}`, wantErr: true},
		{name: "missing score field", response: `{"rating": 5}`, wantErr: true},
		{name: "no json at all", response: "I'd rate this an 8 out of 10.", wantErr: true},
		{name: "malformed json", response: `{"score": }`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRating(tt.response)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractJSONHandlesNestedBraces(t *testing.T) {
	response := `prefix {"score": 4, "detail": {"note": "has a } in a string"}} suffix`
	assert.Equal(t, `{"score": 4, "detail": {"note": "has a } in a string"}}`, extractJSON(response))
}
