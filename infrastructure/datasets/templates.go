// Package datasets loads preference-pair datasets from local files or the
// Hugging Face datasets-server and renders each pair through a chat
// template, so the application layer only ever sees model-ready text.
package datasets

import (
	"fmt"
	"strings"
)

// ChatTemplate renders a (prompt, response) exchange into the conversation
// text a scoring model expects. Templates are a fixed small set keyed by
// name; this is deliberately not a general template engine.
type ChatTemplate struct {
	// Name identifies the template in CLI flags and run summaries.
	Name string

	render func(prompt, response string) string
}

// Render produces the formatted conversation text.
func (t ChatTemplate) Render(prompt, response string) string {
	return t.render(prompt, response)
}

// Built-in chat templates.
var chatTemplates = map[string]ChatTemplate{
	"llama3": {
		Name: "llama3",
		render: func(prompt, response string) string {
			return fmt.Sprintf(
				"<|begin_of_text|><|start_header_id|>user<|end_header_id|>\n\n%s<|eot_id|><|start_header_id|>assistant<|end_header_id|>\n\n%s<|eot_id|>",
				prompt, response,
			)
		},
	},
	"chatml": {
		Name: "chatml",
		render: func(prompt, response string) string {
			return fmt.Sprintf(
				"<|im_start|>user\n%s<|im_end|>\n<|im_start|>assistant\n%s<|im_end|>\n",
				prompt, response,
			)
		},
	},
	"raw": {
		Name: "raw",
		render: func(prompt, response string) string {
			return prompt + "\n" + response
		},
	},
}

// tokenizer families mapped to their template, checked in order so the
// lookup is deterministic.
var tokenizerFamilies = []struct {
	substring string
	template  string
}{
	{"llama-3", "llama3"},
	{"llama3", "llama3"},
	{"qwen", "chatml"},
	{"chatml", "chatml"},
}

// ResolveTemplate selects the chat template for a run. An explicit name
// wins and must exist; otherwise the tokenizer identifier is matched by
// family, falling back to the raw template. An unknown explicit name is a
// configuration error, not a fallback.
func ResolveTemplate(explicit, tokenizer string) (ChatTemplate, error) {
	if explicit != "" {
		tmpl, ok := chatTemplates[explicit]
		if !ok {
			return ChatTemplate{}, fmt.Errorf("unknown chat template: %s", explicit)
		}
		return tmpl, nil
	}

	lower := strings.ToLower(tokenizer)
	for _, family := range tokenizerFamilies {
		if strings.Contains(lower, family.substring) {
			return chatTemplates[family.template], nil
		}
	}

	return chatTemplates["raw"], nil
}
