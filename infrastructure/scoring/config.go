package scoring

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Package-level validator instance for configuration validation.
var validate = validator.New()

// ErrCustomDialogue is returned when a model's configuration requires custom
// dialogue formatting. Runs must fail on it before any inference starts; it
// signals an unimplemented feature, not a data problem.
var ErrCustomDialogue = errors.New("custom dialogue models are not supported")

// ModelConfig describes how a reward model is scored.
type ModelConfig struct {
	// Backend names the scoring backend for this model.
	Backend string `yaml:"backend" json:"backend" validate:"required,oneof=http openai anthropic google"`

	// Quantized indicates the model is served with 8-bit weights. Recorded
	// for run logs; serving is the inference server's concern.
	Quantized bool `yaml:"quantized" json:"quantized"`

	// CustomDialogue marks models that need their own conversation
	// formatting instead of a standard chat template. Unsupported.
	CustomDialogue bool `yaml:"custom_dialogue" json:"custom_dialogue"`

	// ModelType is a human-readable architecture label, such as
	// "Seq. Classifier" or "Generative Judge".
	ModelType string `yaml:"model_type" json:"model_type"`
}

// ModelRegistry maps model identifiers to their scoring configuration.
// Unknown models fall back to the "default" entry. The registry is safe for
// concurrent use.
type ModelRegistry struct {
	mu      sync.RWMutex
	configs map[string]ModelConfig
}

// DefaultModelKey is the registry entry used for models without one of
// their own.
const DefaultModelKey = "default"

// NewModelRegistry creates a registry seeded with known reward models and
// the default classifier configuration.
func NewModelRegistry() *ModelRegistry {
	return &ModelRegistry{
		configs: map[string]ModelConfig{
			DefaultModelKey: {
				Backend:   "http",
				Quantized: true,
				ModelType: "Seq. Classifier",
			},
			"OpenAssistant/reward-model-deberta-v3-large-v2": {
				Backend:   "http",
				ModelType: "Seq. Classifier",
			},
			"OpenAssistant/oasst-rm-2-pythia-6.9b-epoch-1": {
				Backend:   "http",
				Quantized: true,
				ModelType: "Seq. Classifier",
			},
			"berkeley-nest/Starling-RM-7B-alpha": {
				Backend:        "http",
				Quantized:      true,
				CustomDialogue: true,
				ModelType:      "Custom Classifier",
			},
			"stanfordnlp/SteamSHP-flan-t5-xl": {
				Backend:        "http",
				CustomDialogue: true,
				ModelType:      "Custom Classifier",
			},
			"gpt-4o": {
				Backend:   "openai",
				ModelType: "Generative Judge",
			},
			"claude-3-5-sonnet-20241022": {
				Backend:   "anthropic",
				ModelType: "Generative Judge",
			},
			"gemini-2.0-flash-exp": {
				Backend:   "google",
				ModelType: "Generative Judge",
			},
		},
	}
}

// Config returns the configuration for the given model, falling back to the
// default entry when the model has no entry of its own.
func (r *ModelRegistry) Config(model string) ModelConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if cfg, ok := r.configs[model]; ok {
		return cfg
	}
	return r.configs[DefaultModelKey]
}

// Register adds or replaces the configuration for a model.
func (r *ModelRegistry) Register(model string, cfg ModelConfig) error {
	if model == "" {
		return fmt.Errorf("model identifier cannot be empty")
	}
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config for model %s: %w", model, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[model] = cfg
	return nil
}

// registryFile is the YAML layout of a model-config overlay.
type registryFile struct {
	Models map[string]ModelConfig `yaml:"models"`
}

// LoadOverlay merges model configurations from YAML into the registry.
// Entries replace existing ones of the same name, including the default.
func (r *ModelRegistry) LoadOverlay(src io.Reader) error {
	data, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("failed to read model config: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse model config: %w", err)
	}

	for model, cfg := range file.Models {
		if err := r.Register(model, cfg); err != nil {
			return err
		}
	}
	return nil
}

// LoadOverlayFile merges model configurations from a YAML file.
func (r *ModelRegistry) LoadOverlayFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open model config: %w", err)
	}
	defer f.Close()
	return r.LoadOverlay(f)
}
