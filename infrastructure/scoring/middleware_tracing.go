package scoring

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// tracedScorer wraps scoring batches in OpenTelemetry spans. Spans are
// no-ops unless the process installs a tracer provider, so the middleware
// is safe to leave in place unconditionally.
type tracedScorer struct {
	next   CoreScorer
	tracer trace.Tracer
}

// TracingMiddleware creates middleware that records one span per scored
// batch under the given tracer name.
func TracingMiddleware(tracerName string) Middleware {
	tracer := otel.Tracer(tracerName)

	return func(next CoreScorer) CoreScorer {
		return &tracedScorer{
			next:   next,
			tracer: tracer,
		}
	}
}

// ScoreTexts executes the batch within a span carrying the model and batch
// size as attributes.
func (t *tracedScorer) ScoreTexts(ctx context.Context, texts []string) ([]float64, error) {
	ctx, span := t.tracer.Start(ctx, "scoring.ScoreTexts",
		trace.WithAttributes(
			attribute.String("scoring.model", t.next.GetModel()),
			attribute.Int("scoring.batch_size", len(texts)),
		),
	)
	defer span.End()

	scores, err := t.next.ScoreTexts(ctx, texts)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("scoring.scores_returned", len(scores)))
	return scores, nil
}

// GetModel returns the model name from the wrapped implementation.
func (t *tracedScorer) GetModel() string { return t.next.GetModel() }
