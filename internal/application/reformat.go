// Package application orchestrates the two workflows of this repository:
// reformatting preference datasets into judge instruction-tuning data, and
// benchmarking reward models on preference pairs. It wires domain
// transforms to infrastructure behind the ports interfaces.
package application

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/calder-ml/prefbench/internal/domain"
)

// maxLineBytes bounds a single input line. Preference records carry whole
// conversations, so the default scanner buffer is far too small.
const maxLineBytes = 4 << 20

// ReformatStats summarizes one reformatting run.
type ReformatStats struct {
	// Emitted counts instruction records written.
	Emitted int
	// Skipped counts malformed input lines that produced no record.
	Skipped int
}

// Reformatter converts newline-delimited preference records into
// instruction-tuning records, one output line per valid input line.
//
// Records are processed strictly in input order: the position-bias slot is
// an accumulator that flips once per emitted record, so reordering or
// concurrent processing would break the alternation guarantee.
type Reformatter struct {
	logger *log.Logger
}

// NewReformatter creates a reformatter that reports skipped lines through
// the given logger. A nil logger uses the standard logger.
func NewReformatter(logger *log.Logger) *Reformatter {
	if logger == nil {
		logger = log.Default()
	}
	return &Reformatter{logger: logger}
}

// Run streams preference records from src to instruction records on dst.
// Lines that fail to parse are logged with their line number and raw
// content, then skipped; they do not advance the alternation slot. Output
// is NDJSON with HTML escaping disabled so template markers and non-ASCII
// text are written literally.
func (r *Reformatter) Run(src io.Reader, dst io.Writer) (ReformatStats, error) {
	var stats ReformatStats

	out := bufio.NewWriter(dst)
	encoder := json.NewEncoder(out)
	encoder.SetEscapeHTML(false)

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 64<<10), maxLineBytes)

	slot := domain.StartSlot
	line := 0
	for scanner.Scan() {
		line++

		var rec domain.PreferenceRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			r.logger.Printf("skipping malformed line %d: %v: %s", line, err, scanner.Text())
			stats.Skipped++
			continue
		}

		if err := encoder.Encode(domain.Reformat(rec, slot)); err != nil {
			return stats, fmt.Errorf("failed to write record for line %d: %w", line, err)
		}
		slot = slot.Next()
		stats.Emitted++
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("failed to read input: %w", err)
	}

	if err := out.Flush(); err != nil {
		return stats, fmt.Errorf("failed to flush output: %w", err)
	}
	return stats, nil
}
