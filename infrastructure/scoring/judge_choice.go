package scoring

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"

	"github.com/calder-ml/prefbench/internal/domain"
	"github.com/calder-ml/prefbench/internal/ports"
)

// maxLabelEditDistance is the edit budget for matching a sloppy judge
// answer to one of the two literal labels. Larger distances are ambiguous
// and fail the pair rather than guess.
const maxLabelEditDistance = 3

// foldCaser is a package-level Unicode case folder so verdict comparison
// does not allocate a caser per response.
var foldCaser = cases.Fold()

// ChoiceJudge scores preference pairs by presenting both responses to a
// chat model under the same binary-choice rubric the reformatter emits and
// parsing which output the judge picked. A choice maps to pseudo-scores
// (winner 1.0, loser 0.0) so the accuracy loop downstream is unchanged.
//
// The two responses alternate display positions by dataset-global pair
// index, mirroring the reformatter's position-bias mitigation. The judge
// counts pairs across JudgeBatch calls so alternation stays continuous over
// batch boundaries, and index-based slot assignment keeps it deterministic
// even though pairs within a batch are judged concurrently.
type ChoiceJudge struct {
	chat           ChatCompleter
	maxLength      int
	estimator      TokenEstimator
	maxConcurrency int

	mu     sync.Mutex
	judged int
}

var _ ports.PairwiseJudge = (*ChoiceJudge)(nil)

// NewChoiceJudge creates a choice-mode judge over the given chat backend.
// Each side of a pair is clipped client-side to maxLength estimated tokens;
// zero disables clipping. Non-positive maxConcurrency selects the default
// bound.
func NewChoiceJudge(chat ChatCompleter, maxLength, maxConcurrency int) *ChoiceJudge {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultRatingConcurrency
	}
	return &ChoiceJudge{
		chat:           chat,
		maxLength:      maxLength,
		estimator:      NewCharacterTokenEstimator(0),
		maxConcurrency: maxConcurrency,
	}
}

// JudgeBatch judges every pair in the batch and returns score pairs in
// input order.
func (j *ChoiceJudge) JudgeBatch(ctx context.Context, pairs []domain.FormattedPair) ([]domain.ScorePair, error) {
	scores := make([]domain.ScorePair, len(pairs))

	j.mu.Lock()
	offset := j.judged
	j.judged += len(pairs)
	j.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.maxConcurrency)

	for i, pair := range pairs {
		i, pair := i, pair
		g.Go(func() error {
			slot := domain.StartSlot
			if (offset+i)%2 == 1 {
				slot = domain.StartSlot.Next()
			}
			aText, bText := slot.Arrange(
				TruncateTokens(pair.TextChosen, j.maxLength, j.estimator),
				TruncateTokens(pair.TextRejected, j.maxLength, j.estimator),
			)

			response, err := j.chat.Complete(gctx, ChatRequest{
				Prompt:      domain.AssembleInstruction("", aText, bText),
				System:      domain.EvaluatorSystemPrompt,
				Temperature: 0,
			})
			if err != nil {
				return fmt.Errorf("judging pair %d: %w", i, err)
			}

			label, err := parseChoice(response)
			if err != nil {
				return fmt.Errorf("judging pair %d: %w", i, err)
			}

			if label == slot.Label() {
				scores[i] = domain.ScorePair{Chosen: 1.0, Rejected: 0.0}
			} else {
				scores[i] = domain.ScorePair{Chosen: 0.0, Rejected: 1.0}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

// Model returns the judge model identifier.
func (j *ChoiceJudge) Model() string { return j.chat.GetModel() }

// parseChoice maps a judge response to one of the two answer labels.
// Case-folded exact match is tried first, then a substring match when the
// judge added prose around exactly one label, then the Levenshtein-nearest
// label within a small edit budget for near-miss spellings.
func parseChoice(response string) (string, error) {
	answer := foldCaser.String(strings.TrimSpace(response))
	labelA := foldCaser.String(domain.LabelOutputA)
	labelB := foldCaser.String(domain.LabelOutputB)

	switch answer {
	case labelA:
		return domain.LabelOutputA, nil
	case labelB:
		return domain.LabelOutputB, nil
	}

	containsA := strings.Contains(answer, labelA)
	containsB := strings.Contains(answer, labelB)
	switch {
	case containsA && !containsB:
		return domain.LabelOutputA, nil
	case containsB && !containsA:
		return domain.LabelOutputB, nil
	case containsA && containsB:
		return "", fmt.Errorf("ambiguous judge answer mentions both labels: %s", previewBody([]byte(response)))
	}

	distA := levenshtein.ComputeDistance(answer, labelA)
	distB := levenshtein.ComputeDistance(answer, labelB)
	switch {
	case distA <= maxLabelEditDistance && distA < distB:
		return domain.LabelOutputA, nil
	case distB <= maxLabelEditDistance && distB < distA:
		return domain.LabelOutputB, nil
	}

	return "", fmt.Errorf("unparseable judge answer: %s", previewBody([]byte(response)))
}
