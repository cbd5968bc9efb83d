// Command distill-judge converts a preference-pair dataset into
// binary-choice instruction-tuning records for training a judge model.
//
// Input is newline-delimited JSON with prompt/chosen/rejected fields per
// line; output is one instruction record per valid input line. Malformed
// lines are logged and skipped.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/calder-ml/prefbench/internal/application"
)

func main() {
	var (
		inputPath  = flag.String("input", "", "Preference dataset to read, newline-delimited JSON (required)")
		outputPath = flag.String("output", "", "Instruction dataset to write; defaults to stdout")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "distill-judge: ", log.LstdFlags)

	if *inputPath == "" {
		logger.Fatal("-input is required")
	}

	in, err := os.Open(*inputPath)
	if err != nil {
		logger.Fatalf("failed to open input: %v", err)
	}
	defer in.Close()

	out := os.Stdout
	if *outputPath != "" {
		f, err := os.OpenFile(*outputPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
		if err != nil {
			logger.Fatalf("failed to create output: %v", err)
		}
		defer f.Close()
		out = f
	}

	stats, err := application.NewReformatter(logger).Run(in, out)
	if err != nil {
		logger.Fatalf("reformatting failed: %v", err)
	}

	logger.Printf("done: %d records written, %d malformed lines skipped", stats.Emitted, stats.Skipped)
}
