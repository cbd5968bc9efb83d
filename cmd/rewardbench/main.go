// Command rewardbench scores a preference dataset with a reward model and
// reports pairwise accuracy: the fraction of pairs where the chosen
// response outscores the rejected one.
//
// Datasets come from the Hugging Face datasets-server or, with -load_json,
// a local file. Scoring goes through an HTTP classifier inference server or
// a hosted chat model acting as a generative judge: -mode selects the path,
// the model registry supplies each model's backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/calder-ml/prefbench/infrastructure/datasets"
	"github.com/calder-ml/prefbench/infrastructure/middleware"
	"github.com/calder-ml/prefbench/infrastructure/scoring"
	"github.com/calder-ml/prefbench/internal/application"
	"github.com/calder-ml/prefbench/internal/ports"
)

// Scoring modes selectable with -mode.
const (
	modeClassifier = "classifier"
	modeRating     = "rating"
	modeChoice     = "choice"
)

func main() {
	var (
		dataset         = flag.String("dataset", "", "Preference dataset identifier or, with -load_json, file path (required)")
		model           = flag.String("model", "", "Reward model identifier (required)")
		split           = flag.String("split", "", "Dataset split; empty selects the source default")
		tokenizer       = flag.String("tokenizer", "", "Tokenizer identifier; defaults to the model")
		chatTemplate    = flag.String("chat_template", "", "Chat template name (llama3, chatml, raw); empty matches the tokenizer family")
		batchSize       = flag.Int("batch_size", 8, "Pairs scored per batch")
		maxLength       = flag.Int("max_length", 512, "Token budget per formatted text")
		loadJSON        = flag.Bool("load_json", false, "Treat -dataset as a local JSON/JSONL file")
		trustRemoteCode = flag.Bool("trust_remote_code", false, "Allow the inference server to run custom model code")
		debug           = flag.Bool("debug", false, "Truncate the dataset to the first 10 examples")
		outputDir       = flag.String("output_dir", "results/", "Directory for the summary and score files")
		saveAll         = flag.Bool("save_all", false, "Also write every per-pair score pair")
		endpoint        = flag.String("endpoint", "", "Scoring server base URL for the http backend")
		mode            = flag.String("mode", modeClassifier, "Scoring mode: classifier, rating, or choice")
		modelConfig     = flag.String("model_config", "", "YAML file overlaying the model registry")
		rps             = flag.Float64("rps", 0, "Client-side request rate limit; 0 disables")
		metricsAddr     = flag.String("metrics_addr", "", "Address for Prometheus exposition; empty disables")
		timeout         = flag.Duration("timeout", 2*time.Minute, "Per-batch scoring timeout")
		maxConcurrency  = flag.Int("max_concurrency", 0, "In-flight judge calls per batch; 0 selects the backend default")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "rewardbench: ", log.LstdFlags)

	if *dataset == "" || *model == "" {
		logger.Fatal("-dataset and -model are required")
	}

	registry := scoring.NewModelRegistry()
	if *modelConfig != "" {
		if err := registry.LoadOverlayFile(*modelConfig); err != nil {
			logger.Fatalf("failed to load model config: %v", err)
		}
	}

	modelCfg := registry.Config(*model)
	if modelCfg.CustomDialogue {
		logger.Fatalf("model %s: %v", *model, scoring.ErrCustomDialogue)
	}

	tmpl, err := datasets.ResolveTemplate(*chatTemplate, tokenizerOrModel(*tokenizer, *model))
	if err != nil {
		logger.Fatalf("failed to resolve chat template: %v", err)
	}

	var loader ports.PreferenceLoader
	if *loadJSON {
		loader = datasets.NewLocalLoader(tmpl)
	} else {
		loader = datasets.NewHubLoader("", tmpl)
	}

	var metrics ports.MetricsCollector
	if *metricsAddr != "" {
		metrics = middleware.NewPrometheusMetrics()
		go serveMetrics(*metricsAddr, logger)
	}

	judge, err := buildJudge(*mode, modelCfg.Backend, scoring.ScorerConfig{
		Endpoint:        *endpoint,
		APIKey:          apiKeyFor(modelCfg.Backend),
		Model:           *model,
		MaxLength:       *maxLength,
		MaxConcurrency:  *maxConcurrency,
		TrustRemoteCode: *trustRemoteCode,
		Middleware:      buildMiddleware(metrics, *rps, *timeout),
	})
	if err != nil {
		logger.Fatalf("failed to build scorer: %v", err)
	}

	runner, err := application.NewBenchmarkRunner(application.BenchmarkConfig{
		Dataset:      *dataset,
		Split:        *split,
		Model:        *model,
		Tokenizer:    *tokenizer,
		ChatTemplate: explicitTemplate(*chatTemplate),
		BatchSize:    *batchSize,
		Debug:        *debug,
		OutputDir:    *outputDir,
		SaveAll:      *saveAll,
	}, loader, judge, metrics, logger)
	if err != nil {
		logger.Fatalf("failed to configure benchmark: %v", err)
	}

	if _, err := runner.Run(context.Background()); err != nil {
		logger.Fatalf("benchmark failed: %v", err)
	}
}

// buildJudge assembles the pairwise judge for the requested mode. The mode
// is authoritative: classifier scores through an http inference server,
// rating rates each side through a hosted chat judge, and choice asks a
// chat model to pick between the two sides directly. A model whose registry
// backend cannot serve the requested mode fails here, before any inference.
func buildJudge(mode, backend string, config scoring.ScorerConfig) (ports.PairwiseJudge, error) {
	switch mode {
	case modeClassifier:
		if backend != "http" {
			return nil, fmt.Errorf("classifier mode scores through an http inference server; the registry maps this model to the %s backend", backend)
		}
		scorer, err := scoring.NewScorer(backend, config)
		if err != nil {
			return nil, err
		}
		return application.NewScorerJudge(scorer), nil
	case modeRating:
		scorer, err := scoring.NewRatingJudge(backend, config)
		if err != nil {
			return nil, err
		}
		return application.NewScorerJudge(scorer), nil
	case modeChoice:
		chat, err := scoring.NewChatCompleter(backend, config)
		if err != nil {
			return nil, err
		}
		return scoring.NewChoiceJudge(chat, config.MaxLength, config.MaxConcurrency), nil
	default:
		return nil, fmt.Errorf("unknown scoring mode: %s", mode)
	}
}

// buildMiddleware assembles the client middleware chain, outermost first.
func buildMiddleware(metrics ports.MetricsCollector, rps float64, timeout time.Duration) []scoring.Middleware {
	chain := []scoring.Middleware{
		scoring.TracingMiddleware("rewardbench"),
	}
	if metrics != nil {
		chain = append(chain, scoring.MetricsMiddleware(metrics))
	}
	chain = append(chain, scoring.RetryMiddleware(3, time.Second, 30*time.Second))
	if rps > 0 {
		chain = append(chain, scoring.RateLimitMiddleware(rate.Limit(rps), 1))
	}
	if timeout > 0 {
		chain = append(chain, scoring.TimeoutMiddleware(timeout))
	}
	return chain
}

// apiKeyFor reads the conventional environment variable for a hosted
// backend. The http backend authenticates per deployment, if at all.
func apiKeyFor(backend string) string {
	switch backend {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "google":
		return os.Getenv("GEMINI_API_KEY")
	default:
		return os.Getenv("SCORING_API_KEY")
	}
}

func tokenizerOrModel(tokenizer, model string) string {
	if tokenizer != "" {
		return tokenizer
	}
	return model
}

// explicitTemplate returns the template name for the summary, nil when
// selection was left to the tokenizer family so the summary records null.
func explicitTemplate(name string) *string {
	if name == "" {
		return nil
	}
	return &name
}

func serveMetrics(addr string, logger *log.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	logger.Printf("serving metrics on %s/metrics", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Printf("metrics server stopped: %v", err)
	}
}
