package application

import (
	"context"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/calder-ml/prefbench/internal/domain"
	"github.com/calder-ml/prefbench/internal/ports"
)

// Package-level validator instance for configuration validation.
var validate = validator.New()

// DebugLimit is the number of pairs a debug run is truncated to.
const DebugLimit = 10

// BenchmarkConfig configures one benchmark run.
type BenchmarkConfig struct {
	// Dataset identifies the preference dataset, a hub identifier or a
	// local file path depending on the loader.
	Dataset string `validate:"required"`

	// Split selects the dataset split; empty means the source default.
	Split string

	// Model is the identifier the run's scores are attributed to.
	Model string `validate:"required"`

	// Tokenizer is the tokenizer identifier recorded in the summary.
	// Empty defaults to the model identifier.
	Tokenizer string

	// ChatTemplate is the explicit template name, nil when template
	// selection was left to the tokenizer family. Recorded as-is in the
	// summary, where nil serializes as null.
	ChatTemplate *string

	// BatchSize is the number of pairs judged per batch.
	BatchSize int `validate:"min=1"`

	// Debug truncates the dataset to DebugLimit pairs.
	Debug bool

	// OutputDir receives the summary file and, with SaveAll, the
	// per-pair score file.
	OutputDir string `validate:"required"`

	// SaveAll writes every per-pair score pair alongside the summary.
	SaveAll bool
}

// BenchmarkRunner scores a preference dataset with a pairwise judge and
// reports pairwise accuracy. A single pass, no retry semantics of its own;
// resilience belongs to the judge's middleware.
type BenchmarkRunner struct {
	config  BenchmarkConfig
	loader  ports.PreferenceLoader
	judge   ports.PairwiseJudge
	metrics ports.MetricsCollector
	tracer  trace.Tracer
	logger  *log.Logger
}

// NewBenchmarkRunner validates the configuration and creates a runner.
// The metrics collector may be nil to disable run metrics; a nil logger
// uses the standard logger.
func NewBenchmarkRunner(
	config BenchmarkConfig,
	loader ports.PreferenceLoader,
	judge ports.PairwiseJudge,
	metrics ports.MetricsCollector,
	logger *log.Logger,
) (*BenchmarkRunner, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid benchmark config: %w", err)
	}
	if loader == nil {
		return nil, fmt.Errorf("preference loader is required")
	}
	if judge == nil {
		return nil, fmt.Errorf("pairwise judge is required")
	}
	if logger == nil {
		logger = log.Default()
	}

	return &BenchmarkRunner{
		config:  config,
		loader:  loader,
		judge:   judge,
		metrics: metrics,
		tracer:  otel.Tracer("benchmark-runner"),
		logger:  logger,
	}, nil
}

// Run executes the benchmark: load the dataset, judge it batch by batch,
// compute pairwise accuracy, and persist the results. Chosen and rejected
// sides of a batch are fully scored before the next batch is formed, and
// score pairs keep dataset order.
func (r *BenchmarkRunner) Run(ctx context.Context) (domain.BenchmarkSummary, error) {
	ctx, span := r.tracer.Start(ctx, "BenchmarkRunner.Run",
		trace.WithAttributes(
			attribute.String("benchmark.dataset", r.config.Dataset),
			attribute.String("benchmark.model", r.config.Model),
			attribute.Int("benchmark.batch_size", r.config.BatchSize),
		),
	)
	defer span.End()

	pairs, err := r.loader.Load(ctx, r.config.Dataset, r.config.Split)
	if err != nil {
		span.RecordError(err)
		return domain.BenchmarkSummary{}, fmt.Errorf("failed to load dataset: %w", err)
	}

	if r.config.Debug && len(pairs) > DebugLimit {
		pairs = pairs[:DebugLimit]
	}
	r.logger.Printf("loaded %d preference pairs from %s", len(pairs), r.config.Dataset)

	scored, err := r.judgeAll(ctx, pairs)
	if err != nil {
		span.RecordError(err)
		return domain.BenchmarkSummary{}, err
	}

	accuracy, err := domain.Accuracy(scored)
	if err != nil {
		span.RecordError(err)
		return domain.BenchmarkSummary{}, err
	}
	span.SetAttributes(
		attribute.Float64("benchmark.accuracy", accuracy),
		attribute.Int("benchmark.num_prompts", len(scored)),
	)

	summary := domain.BenchmarkSummary{
		Accuracy:     accuracy,
		NumPrompts:   len(scored),
		Model:        r.config.Model,
		Tokenizer:    r.tokenizer(),
		ChatTemplate: r.config.ChatTemplate,
	}

	summaryPath, err := WriteSummary(r.config.OutputDir, summary)
	if err != nil {
		return domain.BenchmarkSummary{}, err
	}
	r.logger.Printf("accuracy %.4f over %d pairs, summary written to %s", accuracy, len(scored), summaryPath)

	if r.config.SaveAll {
		scoresPath, err := WriteScorePairs(r.config.OutputDir, r.config.Model, scored)
		if err != nil {
			return domain.BenchmarkSummary{}, err
		}
		r.logger.Printf("per-pair scores written to %s", scoresPath)
	}

	return summary, nil
}

// judgeAll walks the dataset in batches, accumulating score pairs in
// dataset order and reporting running accuracy as a gauge.
func (r *BenchmarkRunner) judgeAll(ctx context.Context, pairs []domain.FormattedPair) ([]domain.ScorePair, error) {
	scored := make([]domain.ScorePair, 0, len(pairs))

	for start := 0; start < len(pairs); start += r.config.BatchSize {
		end := start + r.config.BatchSize
		if end > len(pairs) {
			end = len(pairs)
		}

		batch, err := r.judge.JudgeBatch(ctx, pairs[start:end])
		if err != nil {
			return nil, fmt.Errorf("failed to judge batch at pair %d: %w", start, err)
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("judge returned %d score pairs for a batch of %d", len(batch), end-start)
		}
		scored = append(scored, batch...)

		if r.metrics != nil {
			running, _ := domain.Accuracy(scored)
			r.metrics.RecordGauge("pairwise_accuracy", running, map[string]string{"model": r.config.Model})
			r.metrics.RecordGauge("pairs_scored", float64(len(scored)), map[string]string{"model": r.config.Model})
		}
		r.logger.Printf("scored %d/%d pairs", len(scored), len(pairs))
	}

	return scored, nil
}

func (r *BenchmarkRunner) tokenizer() string {
	if r.config.Tokenizer != "" {
		return r.config.Tokenizer
	}
	return r.config.Model
}
