package scoring

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calder-ml/prefbench/internal/domain"
	"github.com/calder-ml/prefbench/internal/testutils"
)

// chosenWinsChat always picks whichever position holds the chosen text.
// Pair texts from GenerateFormattedPairs contain "better"/"worse" so the
// mock can tell the sides apart inside the assembled rubric.
func chosenWinsChat() *mockChat {
	return &mockChat{respond: func(req ChatRequest) (string, error) {
		aStart := strings.Index(req.Prompt, "# Output (a):")
		bStart := strings.Index(req.Prompt, "# Output (b):")
		if strings.Contains(req.Prompt[aStart:bStart], "better") {
			return domain.LabelOutputA, nil
		}
		return domain.LabelOutputB, nil
	}}
}

func TestChoiceJudgeMapsChoicesToPseudoScores(t *testing.T) {
	judge := NewChoiceJudge(chosenWinsChat(), 0, 2)

	pairs := testutils.GenerateFormattedPairs(5)
	scores, err := judge.JudgeBatch(context.Background(), pairs)
	require.NoError(t, err)

	require.Len(t, scores, 5)
	for i, pair := range scores {
		assert.Equal(t, domain.ScorePair{Chosen: 1.0, Rejected: 0.0}, pair, "pair %d", i)
		assert.True(t, pair.Correct())
	}
}

func TestChoiceJudgeAlternatesDisplayPositions(t *testing.T) {
	chat := chosenWinsChat()
	judge := NewChoiceJudge(chat, 0, 1)

	pairs := testutils.GenerateFormattedPairs(4)
	_, err := judge.JudgeBatch(context.Background(), pairs)
	require.NoError(t, err)

	requests := chat.Requests()
	require.Len(t, requests, 4)

	// With concurrency 1 requests arrive in index order: even-indexed
	// pairs show the chosen text in position "a", odd-indexed in "b".
	aHoldsChosen := 0
	for _, req := range requests {
		assert.Equal(t, domain.EvaluatorSystemPrompt, req.System)
		aStart := strings.Index(req.Prompt, "# Output (a):")
		bStart := strings.Index(req.Prompt, "# Output (b):")
		if strings.Contains(req.Prompt[aStart:bStart], "better") {
			aHoldsChosen++
		}
	}
	assert.Equal(t, 2, aHoldsChosen, "each side holds position a half the time")
}

func TestChoiceJudgeAlternationContinuesAcrossBatches(t *testing.T) {
	chat := chosenWinsChat()
	judge := NewChoiceJudge(chat, 0, 1)

	// Two odd-sized batches: alternation must pick up where the previous
	// batch left off instead of restarting at position "a", or the chosen
	// text would land in "a" two thirds of the time.
	pairs := testutils.GenerateFormattedPairs(6)
	_, err := judge.JudgeBatch(context.Background(), pairs[:3])
	require.NoError(t, err)
	_, err = judge.JudgeBatch(context.Background(), pairs[3:])
	require.NoError(t, err)

	requests := chat.Requests()
	require.Len(t, requests, 6)

	for i, req := range requests {
		aStart := strings.Index(req.Prompt, "# Output (a):")
		bStart := strings.Index(req.Prompt, "# Output (b):")
		aHoldsChosen := strings.Contains(req.Prompt[aStart:bStart], "better")
		assert.Equal(t, i%2 == 0, aHoldsChosen, "pair %d", i)
	}
}

func TestChoiceJudgeRejectedWins(t *testing.T) {
	// A judge that always answers "Output (a)" regardless of content: the
	// chosen side wins only when it occupies position "a".
	chat := &mockChat{respond: func(req ChatRequest) (string, error) {
		return domain.LabelOutputA, nil
	}}
	judge := NewChoiceJudge(chat, 0, 1)

	scores, err := judge.JudgeBatch(context.Background(), testutils.GenerateFormattedPairs(2))
	require.NoError(t, err)

	assert.Equal(t, domain.ScorePair{Chosen: 1.0, Rejected: 0.0}, scores[0])
	assert.Equal(t, domain.ScorePair{Chosen: 0.0, Rejected: 1.0}, scores[1])
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
		wantErr  bool
	}{
		{name: "exact label a", response: "Output (a)", want: domain.LabelOutputA},
		{name: "exact label b", response: "Output (b)", want: domain.LabelOutputB},
		{name: "case folded", response: "OUTPUT (A)", want: domain.LabelOutputA},
		{name: "surrounding whitespace", response: "  Output (b)\n", want: domain.LabelOutputB},
		{name: "label inside prose", response: "The better response is Output (b).", want: domain.LabelOutputB},
		{name: "near miss spelling", response: "Output a", want: domain.LabelOutputA},
		{name: "mentions both labels", response: "Both Output (a) and Output (b) are good.", wantErr: true},
		{name: "unrelated answer", response: "Neither response is acceptable.", wantErr: true},
		{name: "empty answer", response: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseChoice(tt.response)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
