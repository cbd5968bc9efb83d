package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelRegistryFallsBackToDefault(t *testing.T) {
	registry := NewModelRegistry()

	cfg := registry.Config("some/unknown-reward-model")
	assert.Equal(t, "http", cfg.Backend)
	assert.True(t, cfg.Quantized)
	assert.False(t, cfg.CustomDialogue)
}

func TestModelRegistryKnownEntries(t *testing.T) {
	registry := NewModelRegistry()

	deberta := registry.Config("OpenAssistant/reward-model-deberta-v3-large-v2")
	assert.Equal(t, "http", deberta.Backend)
	assert.False(t, deberta.Quantized)

	starling := registry.Config("berkeley-nest/Starling-RM-7B-alpha")
	assert.True(t, starling.CustomDialogue, "custom dialogue models must be flagged so runs abort before inference")

	gpt := registry.Config("gpt-4o")
	assert.Equal(t, "openai", gpt.Backend)
}

func TestModelRegistryRegisterValidates(t *testing.T) {
	registry := NewModelRegistry()

	err := registry.Register("my/model", ModelConfig{Backend: "carrier-pigeon"})
	assert.Error(t, err)

	err = registry.Register("", ModelConfig{Backend: "http"})
	assert.Error(t, err)

	require.NoError(t, registry.Register("my/model", ModelConfig{Backend: "anthropic", ModelType: "Generative Judge"}))
	assert.Equal(t, "anthropic", registry.Config("my/model").Backend)
}

func TestModelRegistryLoadOverlay(t *testing.T) {
	registry := NewModelRegistry()

	overlay := `
models:
  my-lab/rm-7b:
    backend: http
    quantized: true
    model_type: "Seq. Classifier"
  my-lab/dialogue-rm:
    backend: http
    custom_dialogue: true
    model_type: "Custom Classifier"
  default:
    backend: openai
    model_type: "Generative Judge"
`
	require.NoError(t, registry.LoadOverlay(strings.NewReader(overlay)))

	assert.True(t, registry.Config("my-lab/rm-7b").Quantized)
	assert.True(t, registry.Config("my-lab/dialogue-rm").CustomDialogue)
	// The overlay may replace the default entry too.
	assert.Equal(t, "openai", registry.Config("never-seen").Backend)
}

func TestModelRegistryLoadOverlayRejectsInvalid(t *testing.T) {
	registry := NewModelRegistry()

	assert.Error(t, registry.LoadOverlay(strings.NewReader("models:\n  broken:\n    backend: nope\n")))
	assert.Error(t, registry.LoadOverlay(strings.NewReader("{{not yaml")))
}
