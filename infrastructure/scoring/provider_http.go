package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

func init() {
	RegisterScorerFactory("http", newHTTPScorer)
}

// httpScorer scores batches against a classifier inference server over
// HTTP. The server exposes one POST endpoint that accepts a batch of texts
// and returns one score per text, either as labeled objects or as a raw
// numeric array.
type httpScorer struct {
	client          *http.Client
	endpoint        string
	model           string
	maxLength       int
	trustRemoteCode bool
	errorClassifier *ErrorClassifier
}

var _ CoreScorer = (*httpScorer)(nil)

// newHTTPScorer creates a scorer for a classifier inference server.
func newHTTPScorer(config ScorerConfig) (CoreScorer, error) {
	if config.Endpoint == "" {
		return nil, ErrEmptyEndpoint
	}

	parsed, err := url.Parse(config.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("endpoint scheme must be http or https, got: %s", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("endpoint must include a host")
	}

	return &httpScorer{
		client:          &http.Client{},
		endpoint:        parsed.String(),
		model:           config.Model,
		maxLength:       config.MaxLength,
		trustRemoteCode: config.TrustRemoteCode,
		errorClassifier: &ErrorClassifier{Backend: "http"},
	}, nil
}

// scoreRequest is the wire format of a batch scoring request. Truncation is
// always requested so the server clips inputs with its exact tokenizer.
type scoreRequest struct {
	Model           string   `json:"model"`
	Texts           []string `json:"texts"`
	Truncation      bool     `json:"truncation"`
	MaxLength       int      `json:"max_length,omitempty"`
	TrustRemoteCode bool     `json:"trust_remote_code,omitempty"`
}

// labeledScore is one element of the labeled response shape, as produced by
// classification pipelines: {"label": "LABEL_1", "score": 0.68}. Score is a
// pointer so an element missing the field is detectable.
type labeledScore struct {
	Label string   `json:"label"`
	Score *float64 `json:"score"`
}

// ScoreTexts posts the batch to the inference server and returns one score
// per text, in input order.
func (h *httpScorer) ScoreTexts(ctx context.Context, texts []string) ([]float64, error) {
	body, err := json.Marshal(scoreRequest{
		Model:           h.model,
		Texts:           texts,
		Truncation:      true,
		MaxLength:       h.maxLength,
		TrustRemoteCode: h.trustRemoteCode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode score request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, h.errorClassifier.ClassifyContextError(err)
		}
		return nil, NewBackendError("http", ErrorTypeNetwork, 0, "request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewBackendError("http", ErrorTypeNetwork, resp.StatusCode, "failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, h.errorClassifier.ClassifyHTTPError(resp.StatusCode, string(bytes.TrimSpace(data)), nil)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyResponse
	}

	scores, err := decodeScores(data)
	if err != nil {
		return nil, err
	}
	if len(scores) != len(texts) {
		return nil, fmt.Errorf("%w: got %d scores for %d texts", ErrScoreCount, len(scores), len(texts))
	}
	return scores, nil
}

// decodeScores normalizes the two supported response shapes into a plain
// score list. Labeled objects are tried first; a raw numeric array second.
// Anything else fails with ErrScoreShape, which callers treat as fatal.
func decodeScores(data []byte) ([]float64, error) {
	var labeled []labeledScore
	if err := json.Unmarshal(data, &labeled); err == nil && len(labeled) > 0 {
		scores := make([]float64, len(labeled))
		for i, ls := range labeled {
			if ls.Score == nil {
				return nil, fmt.Errorf("%w: element %d has no score field", ErrScoreShape, i)
			}
			scores[i] = *ls.Score
		}
		return scores, nil
	}

	var raw []float64
	if err := json.Unmarshal(data, &raw); err == nil {
		return raw, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrScoreShape, previewBody(data))
}

// previewBody trims a response body for error messages.
func previewBody(data []byte) string {
	const limit = 120
	s := string(bytes.TrimSpace(data))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

// GetModel returns the configured model identifier.
func (h *httpScorer) GetModel() string { return h.model }
