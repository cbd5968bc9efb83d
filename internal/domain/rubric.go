package domain

import "fmt"

// EvaluatorSystemPrompt is the fixed system-role persona attached to every
// reformatted record.
const EvaluatorSystemPrompt = "You are a helpful assistant in evaluating the quality of the outputs for a given instruction. Your goal is to select the best output for the given instruction."

// evaluationRubric is the binary-choice evaluation prompt. The three
// interpolation points are the extracted instruction and the texts for
// positions "a" and "b". The wording, including the literal answer labels,
// is what downstream judge training expects and must stay byte-stable.
const evaluationRubric = `Select the Output (a) or Output (b) that is better for the given instruction. The two outputs are generated by two different AI chatbots respectively.

Here are some rules of the evaluation:
(1) You should prioritize evaluating whether the output honestly/precisely/closely executes the instruction, then consider its helpfulness, accuracy, level of detail, harmlessness, etc.
(2) Outputs should NOT contain more/less than what the instruction asks for, as such outputs do NOT precisely execute the instruction.
(3) You should avoid any potential bias and your judgment should be as objective as possible. For example, the order in which the outputs were presented should NOT affect your judgment, as Output (a) and Output (b) are **equally likely** to be the better.

Do NOT provide any explanation for your choice.
Do NOT say both / neither are good.
You should answer using ONLY "Output (a)" or "Output (b)". Do NOT output any other words.

# Instruction:
%s

# Output (a):
%s

# Output (b):
%s

# Which is better, Output (a) or Output (b)? Your response should be either "Output (a)" or "Output (b)":`

// AssembleInstruction interpolates the rubric with the extracted instruction
// and the two positioned output texts. Pure string assembly; position
// decisions belong to Slot.Arrange.
func AssembleInstruction(instruction, aText, bText string) string {
	return fmt.Sprintf(evaluationRubric, instruction, aText, bText)
}

// Reformat converts one preference record into its instruction-tuning form
// using the given slot. The caller owns slot advancement between records.
func Reformat(rec PreferenceRecord, slot Slot) InstructionRecord {
	instruction := ExtractInstruction(rec.Prompt)
	chosen, rejected := CorrectPair(
		StripMarkers(rec.Chosen),
		StripMarkers(rec.Rejected),
		rec.ResultsFlag(),
	)
	aText, bText := slot.Arrange(chosen, rejected)

	return InstructionRecord{
		Instruction: AssembleInstruction(instruction, aText, bText),
		Input:       "",
		System:      EvaluatorSystemPrompt,
		Output:      slot.Label(),
	}
}
