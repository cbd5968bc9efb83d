package domain

import "errors"

// ErrNoPairs indicates an accuracy computation over zero scored pairs.
var ErrNoPairs = errors.New("no preference pairs scored")

// FormattedPair is one evaluation example with both responses already
// rendered through the chat template, ready for a scoring model.
type FormattedPair struct {
	TextChosen   string `json:"text_chosen"`
	TextRejected string `json:"text_rejected"`
}

// ScorePair holds the reward scores assigned to both sides of one
// preference pair. Pairs are matched by batch-relative index, so a slice of
// ScorePair preserves the zip-order alignment of the two score lists.
type ScorePair struct {
	Chosen   float64 `json:"chosen"`
	Rejected float64 `json:"rejected"`
}

// Correct reports whether the chosen response outscored the rejected one.
// Ties count as incorrect.
func (p ScorePair) Correct() bool { return p.Chosen > p.Rejected }

// ZipScores pairs up the chosen-side and rejected-side score lists of one
// batch. The lists must be the same length; a mismatch means the scorer
// broke batch alignment and the run cannot be trusted.
func ZipScores(chosen, rejected []float64) ([]ScorePair, error) {
	if len(chosen) != len(rejected) {
		return nil, errors.New("score list length mismatch between chosen and rejected sides")
	}
	pairs := make([]ScorePair, len(chosen))
	for i := range chosen {
		pairs[i] = ScorePair{Chosen: chosen[i], Rejected: rejected[i]}
	}
	return pairs, nil
}

// Accuracy returns the fraction of pairs whose chosen score strictly
// exceeds the rejected score.
func Accuracy(pairs []ScorePair) (float64, error) {
	if len(pairs) == 0 {
		return 0, ErrNoPairs
	}
	correct := 0
	for _, p := range pairs {
		if p.Correct() {
			correct++
		}
	}
	return float64(correct) / float64(len(pairs)), nil
}

// BenchmarkSummary is the persisted result of one benchmark run.
// ChatTemplate is nil when no template override was requested, which
// serializes as JSON null.
type BenchmarkSummary struct {
	Accuracy     float64 `json:"accuracy"`
	NumPrompts   int     `json:"num_prompts"`
	Model        string  `json:"model"`
	Tokenizer    string  `json:"tokenizer"`
	ChatTemplate *string `json:"chat_template"`
}
