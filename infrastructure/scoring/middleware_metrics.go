package scoring

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/calder-ml/prefbench/internal/ports"
)

// metricsScorer collects request metrics for scoring batches. This provides
// observability into batch latency, throughput, and error rates across long
// benchmark runs.
type metricsScorer struct {
	next      CoreScorer
	collector ports.MetricsCollector
}

// MetricsMiddleware creates middleware that collects batch metrics through
// the given collector. A nil collector disables collection without changing
// scoring behavior.
func MetricsMiddleware(collector ports.MetricsCollector) Middleware {
	return func(next CoreScorer) CoreScorer {
		return &metricsScorer{
			next:      next,
			collector: collector,
		}
	}
}

// ScoreTexts executes the batch while recording latency, batch size, and
// request status.
func (m *metricsScorer) ScoreTexts(ctx context.Context, texts []string) ([]float64, error) {
	start := time.Now()
	scores, err := m.next.ScoreTexts(ctx, texts)

	labels := map[string]string{
		"backend": m.extractBackend(),
		"model":   m.next.GetModel(),
		"status":  "success",
	}

	if err != nil {
		labels["status"] = classifyStatus(ctx, err)
	}

	if m.collector != nil {
		m.collector.RecordHistogram("scoring_batch_latency_seconds", time.Since(start).Seconds(), labels)
		m.collector.RecordHistogram("scoring_batch_size", float64(len(texts)), labels)
		m.collector.RecordCounter("scoring_batches_total", 1, labels)

		if err == nil {
			m.collector.RecordCounter("scoring_texts_total", float64(len(scores)), labels)
		}
	}

	return scores, err
}

func classifyStatus(ctx context.Context, err error) string {
	var backendErr *BackendError
	switch {
	case ctx.Err() == context.DeadlineExceeded:
		return "timeout"
	case errors.As(err, &backendErr):
		if s := backendErr.typeString(); s != "" {
			return s
		}
		return "error"
	default:
		return "error"
	}
}

func (m *metricsScorer) extractBackend() string {
	model := m.next.GetModel()
	if strings.Contains(model, "gpt") {
		return "openai"
	} else if strings.Contains(model, "claude") {
		return "anthropic"
	} else if strings.Contains(model, "gemini") {
		return "google"
	}
	return "http"
}

// GetModel returns the model name from the wrapped implementation.
func (m *metricsScorer) GetModel() string { return m.next.GetModel() }
