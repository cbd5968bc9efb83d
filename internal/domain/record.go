// Package domain contains the pure data types and transforms for preference
// reformatting and reward-model benchmarking. Nothing here performs I/O or
// depends on infrastructure; functions are deterministic string and slice
// operations so they can be tested in isolation.
package domain

// DefaultResultsFlag is assumed when a source record omits its results field.
// A value of 1 means the chosen/rejected labels are already canonical.
const DefaultResultsFlag = 1

// PreferenceRecord is one line of a newline-delimited JSON preference dataset.
// The prompt holds a templated conversation; chosen and rejected are two
// candidate responses to it, possibly wrapped in template markers.
type PreferenceRecord struct {
	// Prompt contains the templated conversation, including the user turn
	// the instruction is recovered from.
	Prompt string `json:"prompt"`

	// Chosen is the preferred response before swap correction.
	Chosen string `json:"chosen"`

	// Rejected is the dispreferred response before swap correction.
	Rejected string `json:"rejected"`

	// Results signals whether the chosen/rejected labels match ground
	// truth. A value of 0 means the labels are inverted and must be
	// swapped. Nil means the field was absent from the source line.
	Results *int `json:"results,omitempty"`
}

// ResultsFlag returns the swap flag, substituting the default when the
// source record omitted the field.
func (r PreferenceRecord) ResultsFlag() int {
	if r.Results == nil {
		return DefaultResultsFlag
	}
	return *r.Results
}

// InstructionRecord is one line of the reformatted instruction-tuning
// dataset. Field order matches the serialized layout consumed by the
// downstream trainer.
type InstructionRecord struct {
	// Instruction is the fully assembled evaluation prompt containing the
	// extracted instruction and both candidate outputs.
	Instruction string `json:"instruction"`

	// Input is reserved by the trainer format and always empty.
	Input string `json:"input"`

	// System is the fixed evaluator persona.
	System string `json:"system"`

	// Output is the label of the position holding the corrected chosen
	// text, either "Output (a)" or "Output (b)".
	Output string `json:"output"`
}
