package application

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/calder-ml/prefbench/internal/domain"
)

// WriteSummary persists the run summary as <outputDir>/<model>.json and
// returns the written path. Model identifiers may contain slashes, so
// parent directories are created as needed.
func WriteSummary(outputDir string, summary domain.BenchmarkSummary) (string, error) {
	path := filepath.Join(outputDir, summary.Model+".json")
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode summary: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return "", fmt.Errorf("failed to write summary: %w", err)
	}
	return path, nil
}

// WriteScorePairs persists every per-pair score pair as newline-delimited
// JSON at <outputDir>/<model>_all.jsonl, one pair per line in dataset
// order, and returns the written path.
func WriteScorePairs(outputDir, model string, pairs []domain.ScorePair) (string, error) {
	path := filepath.Join(outputDir, model+"_all.jsonl")
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("failed to create scores file: %w", err)
	}
	defer f.Close()

	out := bufio.NewWriter(f)
	encoder := json.NewEncoder(out)
	for _, pair := range pairs {
		if err := encoder.Encode(pair); err != nil {
			return "", fmt.Errorf("failed to write score pair: %w", err)
		}
	}
	if err := out.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush scores file: %w", err)
	}
	return path, nil
}
