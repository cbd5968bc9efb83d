package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calder-ml/prefbench/infrastructure/scoring"
)

func TestBuildJudgeModeIsAuthoritative(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		backend string
		config  scoring.ScorerConfig
		wantErr string
	}{
		{
			name:    "classifier on http backend",
			mode:    modeClassifier,
			backend: "http",
			config:  scoring.ScorerConfig{Endpoint: "http://localhost:8080/score", Model: "m"},
		},
		{
			name:    "classifier rejects chat backend",
			mode:    modeClassifier,
			backend: "openai",
			config:  scoring.ScorerConfig{APIKey: "k", Model: "gpt-4o"},
			wantErr: "classifier mode",
		},
		{
			name:    "rating on chat backend",
			mode:    modeRating,
			backend: "openai",
			config:  scoring.ScorerConfig{APIKey: "k", Model: "gpt-4o"},
		},
		{
			name:    "rating rejects http backend",
			mode:    modeRating,
			backend: "http",
			config:  scoring.ScorerConfig{Endpoint: "http://localhost:8080/score", Model: "m"},
			wantErr: "unknown chat backend",
		},
		{
			name:    "choice on chat backend",
			mode:    modeChoice,
			backend: "anthropic",
			config:  scoring.ScorerConfig{APIKey: "k", Model: "claude-3-5-sonnet-20241022"},
		},
		{
			name:    "choice rejects http backend",
			mode:    modeChoice,
			backend: "http",
			config:  scoring.ScorerConfig{Endpoint: "http://localhost:8080/score", Model: "m"},
			wantErr: "unknown chat backend",
		},
		{
			name:    "unknown mode",
			mode:    "vibes",
			backend: "http",
			config:  scoring.ScorerConfig{Endpoint: "http://localhost:8080/score", Model: "m"},
			wantErr: "unknown scoring mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			judge, err := buildJudge(tt.mode, tt.backend, tt.config)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, judge)
		})
	}
}
