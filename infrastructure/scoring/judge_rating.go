package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Rating judge configuration bounds.
const (
	// RatingScaleMin and RatingScaleMax bound the score a judge may
	// assign to a single response.
	RatingScaleMin = 1.0
	RatingScaleMax = 10.0

	// DefaultRatingConcurrency bounds in-flight judge calls per batch.
	DefaultRatingConcurrency = 5
)

// ratingPrompt asks a chat model to rate one response. The judge must
// answer with strict JSON so the score can be parsed without heuristics.
const ratingPrompt = `Rate the quality of the AI assistant's final response in the following conversation on a scale from 1 to 10, where 1 is very poor and 10 is excellent. Consider helpfulness, accuracy, level of detail, and harmlessness.

Conversation:
%s

Respond with ONLY a JSON object in exactly this format:
{"score": <number between 1 and 10>}`

// NewRatingJudge creates a reward scorer that rates each text through a
// hosted chat backend, with the configured middleware applied. It fails for
// backends without a chat client, such as http.
func NewRatingJudge(backend string, config ScorerConfig) (*Scorer, error) {
	chat, err := NewChatCompleter(backend, config)
	if err != nil {
		return nil, err
	}
	core := NewRatingScorer(chat, config.MaxLength, config.MaxConcurrency)
	return WrapScorer(core, config.Middleware), nil
}

// ratingScorer scores texts by asking a chat model to rate each one on a
// fixed numeric scale. Texts within a batch are judged concurrently under a
// bounded fan-out; scores stay index-aligned with the input.
type ratingScorer struct {
	chat           ChatCompleter
	maxLength      int
	estimator      TokenEstimator
	maxConcurrency int
}

var _ CoreScorer = (*ratingScorer)(nil)

// NewRatingScorer creates a rating judge over the given chat backend.
// Hosted judges have no server-side truncation, so texts are clipped
// client-side to maxLength estimated tokens; zero disables clipping.
// Non-positive maxConcurrency selects the default bound.
func NewRatingScorer(chat ChatCompleter, maxLength, maxConcurrency int) CoreScorer {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultRatingConcurrency
	}
	return &ratingScorer{
		chat:           chat,
		maxLength:      maxLength,
		estimator:      NewCharacterTokenEstimator(0),
		maxConcurrency: maxConcurrency,
	}
}

// ScoreTexts judges every text in the batch and returns the ratings in
// input order. Any single failed judgment fails the batch, since callers
// zip score lists by position.
func (r *ratingScorer) ScoreTexts(ctx context.Context, texts []string) ([]float64, error) {
	scores := make([]float64, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxConcurrency)

	for i, text := range texts {
		i, text := i, TruncateTokens(text, r.maxLength, r.estimator)
		g.Go(func() error {
			response, err := r.chat.Complete(gctx, ChatRequest{
				Prompt:      fmt.Sprintf(ratingPrompt, text),
				Temperature: 0,
			})
			if err != nil {
				return fmt.Errorf("rating text %d: %w", i, err)
			}

			score, err := parseRating(response)
			if err != nil {
				return fmt.Errorf("rating text %d: %w", i, err)
			}

			scores[i] = score
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

// GetModel returns the judge model identifier.
func (r *ratingScorer) GetModel() string { return r.chat.GetModel() }

// ratingResponse is the strict JSON shape the rating prompt requests.
type ratingResponse struct {
	Score *float64 `json:"score"`
}

// parseRating extracts the numeric score from a judge response and
// validates it against the rating scale.
func parseRating(response string) (float64, error) {
	payload := extractJSON(response)
	if payload == "" {
		return 0, fmt.Errorf("no JSON object in judge response: %s", previewBody([]byte(response)))
	}

	var parsed ratingResponse
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return 0, fmt.Errorf("failed to parse judge response: %w", err)
	}
	if parsed.Score == nil {
		return 0, fmt.Errorf("judge response has no score field: %s", payload)
	}

	score := *parsed.Score
	if score < RatingScaleMin || score > RatingScaleMax {
		return 0, fmt.Errorf("score %.2f not in range [%.0f, %.0f]", score, RatingScaleMin, RatingScaleMax)
	}
	return score, nil
}

// extractJSON locates the first complete JSON object in a response, looking
// inside Markdown code fences first since chat models often wrap JSON in
// them despite instructions.
func extractJSON(response string) string {
	if fenced := extractFencedJSON(response); fenced != "" {
		return fenced
	}

	start := strings.Index(response, "{")
	if start == -1 {
		return ""
	}

	// Find the matching closing brace, tracking strings and escapes so
	// braces inside string values are not counted.
	braceCount := 0
	inString := false
	escapeNext := false

	for i := start; i < len(response); i++ {
		char := response[i]

		if escapeNext {
			escapeNext = false
			continue
		}
		if char == '\\' {
			escapeNext = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}

		if !inString {
			switch char {
			case '{':
				braceCount++
			case '}':
				braceCount--
				if braceCount == 0 {
					return response[start : i+1]
				}
			}
		}
	}

	return ""
}

// extractFencedJSON returns the body of the first code fence that holds a
// JSON object, or the empty string.
func extractFencedJSON(response string) string {
	start := strings.Index(response, "```")
	if start == -1 {
		return ""
	}
	start += 3
	// Skip a language identifier such as "json".
	if newline := strings.Index(response[start:], "\n"); newline != -1 {
		start += newline + 1
	}
	end := strings.Index(response[start:], "```")
	if end == -1 {
		return ""
	}
	candidate := strings.TrimSpace(response[start : start+end])
	if strings.HasPrefix(candidate, "{") {
		return candidate
	}
	return ""
}
