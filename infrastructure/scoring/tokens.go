package scoring

// TokenEstimator approximates token counts for texts before they are sent
// to a backend. Exact tokenization belongs to the serving side; estimates
// here drive client-side truncation and request sizing.
type TokenEstimator interface {
	// EstimateTokens returns an approximate token count for the text.
	EstimateTokens(text string) int
}

// CharacterTokenEstimator estimates tokens from character count. Roughly
// four characters per token holds for English text across common
// tokenizers.
type CharacterTokenEstimator struct{ CharsPerToken float64 }

// NewCharacterTokenEstimator creates an estimator with the given ratio.
// Non-positive ratios fall back to the four-characters-per-token default.
func NewCharacterTokenEstimator(charsPerToken float64) *CharacterTokenEstimator {
	if charsPerToken <= 0 {
		charsPerToken = 4.0
	}
	return &CharacterTokenEstimator{CharsPerToken: charsPerToken}
}

// EstimateTokens returns the character count divided by the ratio.
func (e *CharacterTokenEstimator) EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return int(float64(len(text)) / e.CharsPerToken)
}

// TruncateTokens trims text so its estimated token count does not exceed
// maxTokens. A maxTokens of zero or below disables truncation. Truncation
// is byte-estimate based and rune-safe; the serving side applies exact
// tokenizer truncation on top of it.
func TruncateTokens(text string, maxTokens int, estimator TokenEstimator) string {
	if maxTokens <= 0 {
		return text
	}
	if estimator == nil {
		estimator = NewCharacterTokenEstimator(0)
	}
	if estimator.EstimateTokens(text) <= maxTokens {
		return text
	}

	charsPerToken := 4.0
	if c, ok := estimator.(*CharacterTokenEstimator); ok {
		charsPerToken = c.CharsPerToken
	}
	limit := int(float64(maxTokens) * charsPerToken)
	if limit >= len(text) {
		return text
	}

	// Back up to a rune boundary so multi-byte characters stay intact.
	for limit > 0 && (text[limit]&0xC0) == 0x80 {
		limit--
	}
	return text[:limit]
}
