package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleInstruction(t *testing.T) {
	got := AssembleInstruction("Write a haiku.", "first candidate", "second candidate")

	assert.True(t, strings.HasPrefix(got, "Select the Output (a) or Output (b) that is better for the given instruction."))
	assert.Contains(t, got, "# Instruction:\nWrite a haiku.\n")
	assert.Contains(t, got, "# Output (a):\nfirst candidate\n")
	assert.Contains(t, got, "# Output (b):\nsecond candidate\n")
	assert.True(t, strings.HasSuffix(got, `Your response should be either "Output (a)" or "Output (b)":`))

	// The rubric rules must survive interpolation verbatim.
	assert.Contains(t, got, "Do NOT provide any explanation for your choice.")
	assert.Contains(t, got, "Do NOT say both / neither are good.")
	assert.Contains(t, got, `You should answer using ONLY "Output (a)" or "Output (b)".`)
	assert.Contains(t, got, "**equally likely**")
}

func TestReformatFirstRecord(t *testing.T) {
	one := 1
	rec := PreferenceRecord{
		Prompt:   "...<|start_header_id|>user<|end_header_id|>\n\nWrite a haiku.<|eot_id|>",
		Chosen:   "<|x|>A<|/x|>",
		Rejected: "<|x|>B<|/x|>",
		Results:  &one,
	}

	got := Reformat(rec, StartSlot)

	assert.Equal(t, "Output (a)", got.Output)
	assert.Contains(t, got.Instruction, "Write a haiku.")
	assert.Contains(t, got.Instruction, "# Output (a):\nA\n")
	assert.Contains(t, got.Instruction, "# Output (b):\nB\n")
	assert.Equal(t, "", got.Input)
	assert.Equal(t, EvaluatorSystemPrompt, got.System)
}

func TestReformatSwapsOnZeroResults(t *testing.T) {
	zero := 0
	rec := PreferenceRecord{
		Prompt:   "...<|start_header_id|>user<|end_header_id|>\n\nWrite a haiku.<|eot_id|>",
		Chosen:   "<|x|>A<|/x|>",
		Rejected: "<|x|>B<|/x|>",
		Results:  &zero,
	}

	got := Reformat(rec, StartSlot)

	// The label is slot-driven, not swap-driven: still first-of-run.
	assert.Equal(t, "Output (a)", got.Output)
	// But the swapped chosen, B, now occupies position a.
	assert.Contains(t, got.Instruction, "# Output (a):\nB\n")
	assert.Contains(t, got.Instruction, "# Output (b):\nA\n")
}

func TestReformatMissingResultsDefaultsToNoSwap(t *testing.T) {
	rec := PreferenceRecord{
		Prompt:   "<|start_header_id|>user<|end_header_id|>\n\nAdd 2+2.<|eot_id|>",
		Chosen:   "four",
		Rejected: "five",
	}
	require.Nil(t, rec.Results)

	got := Reformat(rec, StartSlot)

	assert.Contains(t, got.Instruction, "# Output (a):\nfour\n")
	assert.Contains(t, got.Instruction, "# Output (b):\nfive\n")
}

func TestReformatSlotBPlacesChosenSecond(t *testing.T) {
	rec := PreferenceRecord{
		Prompt:   "<|start_header_id|>user<|end_header_id|>\n\nName a color.<|eot_id|>",
		Chosen:   "blue",
		Rejected: "loud",
	}

	got := Reformat(rec, SlotB)

	assert.Equal(t, "Output (b)", got.Output)
	assert.Contains(t, got.Instruction, "# Output (a):\nloud\n")
	assert.Contains(t, got.Instruction, "# Output (b):\nblue\n")
}

func TestReformatMissingUserTurnEmitsEmptyInstruction(t *testing.T) {
	rec := PreferenceRecord{
		Prompt:   "no template here",
		Chosen:   "A",
		Rejected: "B",
	}

	got := Reformat(rec, StartSlot)

	assert.Contains(t, got.Instruction, "# Instruction:\n\n")
	assert.Contains(t, got.Instruction, "# Output (a):\nA\n")
}
