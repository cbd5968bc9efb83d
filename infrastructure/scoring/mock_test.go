package scoring

import (
	"context"
	"sync"
	"sync/atomic"
)

// mockCore is a scripted CoreScorer for middleware tests. Responses are
// consumed in order; when the script runs out the last entry repeats.
type mockCore struct {
	model     string
	responses []mockResponse
	calls     atomic.Int32
}

type mockResponse struct {
	scores []float64
	err    error
}

func (m *mockCore) ScoreTexts(ctx context.Context, texts []string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	call := int(m.calls.Add(1)) - 1
	if call >= len(m.responses) {
		call = len(m.responses) - 1
	}
	resp := m.responses[call]
	return resp.scores, resp.err
}

func (m *mockCore) GetModel() string {
	if m.model == "" {
		return "mock-core"
	}
	return m.model
}

// mockChat is a scripted ChatCompleter for judge tests. Respond maps a
// prompt to a response; Replies, when set, are consumed per call instead.
type mockChat struct {
	model   string
	respond func(req ChatRequest) (string, error)

	mu       sync.Mutex
	requests []ChatRequest
}

func (m *mockChat) Complete(_ context.Context, req ChatRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.respond(req)
}

func (m *mockChat) GetModel() string {
	if m.model == "" {
		return "mock-judge"
	}
	return m.model
}

func (m *mockChat) Requests() []ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	requests := make([]ChatRequest, len(m.requests))
	copy(requests, m.requests)
	return requests
}
