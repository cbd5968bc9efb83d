package datasets

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/calder-ml/prefbench/internal/domain"
	"github.com/calder-ml/prefbench/internal/ports"
)

// maxLineBytes bounds a single NDJSON line. Preference records carry whole
// conversations, so the default scanner buffer is far too small.
const maxLineBytes = 4 << 20

// sourceExample is one record of a preference dataset source. Records carry
// either pre-formatted text_chosen/text_rejected fields or a raw
// prompt/chosen/rejected triple that needs chat-template rendering.
type sourceExample struct {
	Prompt       string `json:"prompt"`
	Chosen       string `json:"chosen"`
	Rejected     string `json:"rejected"`
	TextChosen   string `json:"text_chosen"`
	TextRejected string `json:"text_rejected"`
}

// format renders the example into a model-ready pair, preferring the
// pre-formatted fields when the source provides them.
func (e sourceExample) format(tmpl ChatTemplate) domain.FormattedPair {
	if e.TextChosen != "" && e.TextRejected != "" {
		return domain.FormattedPair{TextChosen: e.TextChosen, TextRejected: e.TextRejected}
	}
	return domain.FormattedPair{
		TextChosen:   tmpl.Render(e.Prompt, e.Chosen),
		TextRejected: tmpl.Render(e.Prompt, e.Rejected),
	}
}

// LocalLoader loads preference pairs from a local file, either
// newline-delimited JSON or a single JSON array of records. The dataset
// argument of Load is the file path; splits do not apply to local files and
// are ignored.
type LocalLoader struct {
	template ChatTemplate
}

var _ ports.PreferenceLoader = (*LocalLoader)(nil)

// NewLocalLoader creates a loader that renders raw records through the
// given chat template.
func NewLocalLoader(template ChatTemplate) *LocalLoader {
	return &LocalLoader{template: template}
}

// Load reads every preference pair from the file at dataset, in file order.
func (l *LocalLoader) Load(ctx context.Context, dataset, split string) ([]domain.FormattedPair, error) {
	f, err := os.Open(dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	reader := bufio.NewReaderSize(f, 64<<10)

	// A leading '[' means a single JSON array; anything else is NDJSON.
	head, err := reader.Peek(1)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	if head[0] == '[' {
		return l.loadArray(reader)
	}
	return l.loadLines(ctx, reader)
}

func (l *LocalLoader) loadArray(reader *bufio.Reader) ([]domain.FormattedPair, error) {
	var examples []sourceExample
	if err := json.NewDecoder(reader).Decode(&examples); err != nil {
		return nil, fmt.Errorf("failed to parse dataset array: %w", err)
	}

	pairs := make([]domain.FormattedPair, len(examples))
	for i, example := range examples {
		pairs[i] = example.format(l.template)
	}
	return pairs, nil
}

func (l *LocalLoader) loadLines(ctx context.Context, reader *bufio.Reader) ([]domain.FormattedPair, error) {
	var pairs []domain.FormattedPair

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64<<10), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var example sourceExample
		if err := json.Unmarshal(raw, &example); err != nil {
			return nil, fmt.Errorf("failed to parse dataset line %d: %w", line, err)
		}
		pairs = append(pairs, example.format(l.template))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	return pairs, nil
}
