package testutils

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	"github.com/calder-ml/prefbench/internal/domain"
)

// sample instructions for generated records. Small on purpose; realism
// comes from the template wrapping, not the text.
var sampleInstructions = []string{
	"Write a haiku about the ocean.",
	"Explain photosynthesis in one paragraph.",
	"Summarize the plot of Hamlet.",
	"List three uses for a paperclip.",
	"Translate 'good morning' into French.",
	"Describe how a binary search works.",
}

// GeneratePreferenceRecords produces n deterministic preference records in
// the llama3 template format the extractor recognizes. The same seed always
// yields the same records.
func GeneratePreferenceRecords(n int, seed int64) []domain.PreferenceRecord {
	// #nosec G404 - deterministic test data generation
	rng := rand.New(rand.NewSource(seed))

	records := make([]domain.PreferenceRecord, n)
	for i := range records {
		instruction := sampleInstructions[rng.Intn(len(sampleInstructions))]
		records[i] = domain.PreferenceRecord{
			Prompt: fmt.Sprintf(
				"<|begin_of_text|><|start_header_id|>user<|end_header_id|>\n\n%s<|eot_id|>",
				instruction,
			),
			Chosen:   fmt.Sprintf("A thorough answer to request %d.<|eot_id|>", i),
			Rejected: fmt.Sprintf("Meh %d.<|eot_id|>", i),
		}
	}
	return records
}

// RecordsToNDJSON serializes records as newline-delimited JSON, the input
// format of the reformatter.
func RecordsToNDJSON(records []domain.PreferenceRecord) (string, error) {
	var sb strings.Builder
	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return "", err
		}
		sb.Write(data)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// GenerateFormattedPairs produces n deterministic model-ready pairs for
// benchmark tests.
func GenerateFormattedPairs(n int) []domain.FormattedPair {
	pairs := make([]domain.FormattedPair, n)
	for i := range pairs {
		pairs[i] = domain.FormattedPair{
			TextChosen:   fmt.Sprintf("conversation %d: the better answer", i),
			TextRejected: fmt.Sprintf("conversation %d: the worse answer", i),
		}
	}
	return pairs
}
