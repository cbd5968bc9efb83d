package scoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, CoreScorer) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	scorer, err := newHTTPScorer(ScorerConfig{
		Endpoint:  server.URL,
		Model:     "test-rm",
		MaxLength: 512,
	})
	require.NoError(t, err)
	return server, scorer
}

func TestHTTPScorerLabeledShape(t *testing.T) {
	_, scorer := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req scoreRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-rm", req.Model)
		assert.True(t, req.Truncation)
		assert.Equal(t, 512, req.MaxLength)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"label": "LABEL_1", "score": 0.9}, {"label": "LABEL_1", "score": 0.2}]`))
	})

	scores, err := scorer.ScoreTexts(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.9, 0.2}, scores)
}

func TestHTTPScorerRawArrayShape(t *testing.T) {
	_, scorer := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[1.25, -0.5]`))
	})

	scores, err := scorer.ScoreTexts(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []float64{1.25, -0.5}, scores)
}

func TestHTTPScorerUnrecognizedShape(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "object not array", body: `{"scores": [0.1]}`},
		{name: "string array", body: `["high", "low"]`},
		{name: "element missing score field", body: `[{"label": "LABEL_1"}, {"label": "LABEL_1"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, scorer := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := scorer.ScoreTexts(context.Background(), []string{"a", "b"})
			assert.ErrorIs(t, err, ErrScoreShape)
		})
	}
}

func TestHTTPScorerScoreCountMismatch(t *testing.T) {
	_, scorer := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[0.5]`))
	})

	_, err := scorer.ScoreTexts(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, ErrScoreCount)
}

func TestHTTPScorerEmptyResponse(t *testing.T) {
	_, scorer := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("  "))
	})

	_, err := scorer.ScoreTexts(context.Background(), []string{"a"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestHTTPScorerErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantType  ErrorType
		retryable bool
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantType: ErrorTypeAuthentication, retryable: false},
		{name: "rate limited", status: http.StatusTooManyRequests, wantType: ErrorTypeRateLimit, retryable: true},
		{name: "bad request", status: http.StatusBadRequest, wantType: ErrorTypeBadRequest, retryable: false},
		{name: "server error", status: http.StatusInternalServerError, wantType: ErrorTypeServerError, retryable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, scorer := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			})

			_, err := scorer.ScoreTexts(context.Background(), []string{"a"})
			require.Error(t, err)

			var backendErr *BackendError
			require.ErrorAs(t, err, &backendErr)
			assert.Equal(t, tt.wantType, backendErr.Type)
			assert.Equal(t, tt.status, backendErr.StatusCode)
			assert.Equal(t, tt.retryable, backendErr.IsRetryable())
		})
	}
}

func TestNewHTTPScorerValidation(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
	}{
		{name: "empty endpoint", endpoint: ""},
		{name: "bad scheme", endpoint: "ftp://host/score"},
		{name: "missing host", endpoint: "http://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newHTTPScorer(ScorerConfig{Endpoint: tt.endpoint, Model: "m"})
			assert.Error(t, err)
		})
	}
}

func TestNewScorerUnknownBackend(t *testing.T) {
	_, err := NewScorer("pigeon", ScorerConfig{Model: "m"})
	assert.ErrorContains(t, err, "unknown scoring backend")
}

func TestNewScorerRequiresModel(t *testing.T) {
	_, err := NewScorer("http", ScorerConfig{Endpoint: "http://localhost:1"})
	assert.ErrorContains(t, err, "model is required")
}
