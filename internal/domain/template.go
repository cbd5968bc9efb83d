package domain

import (
	"regexp"
	"strings"
)

// markerPattern matches one template marker token, shortest span first, so
// adjacent markers are removed independently rather than merged.
var markerPattern = regexp.MustCompile(`<\|.*?\|>`)

// userTurnPattern captures the instruction text between the user-turn header
// and the turn terminator. Dot-matches-newline mode lets the instruction
// span multiple lines; the capture is non-greedy so only the first user turn
// is taken.
var userTurnPattern = regexp.MustCompile(`(?s)<\|start_header_id\|>user<\|end_header_id\|>\n\n(.*?)<\|eot_id\|>`)

// StripMarkers removes every template marker token from text and trims
// surrounding whitespace. Text without markers passes through unchanged
// apart from the trim, so the function is idempotent.
func StripMarkers(text string) string {
	return strings.TrimSpace(markerPattern.ReplaceAllString(text, ""))
}

// ExtractInstruction recovers the natural-language instruction from a
// templated prompt. Only the first user-turn span is used and its content is
// marker-stripped. A prompt without a user-turn span yields the empty
// string; callers still emit a record in that case.
func ExtractInstruction(prompt string) string {
	m := userTurnPattern.FindStringSubmatch(prompt)
	if m == nil {
		return ""
	}
	return StripMarkers(m[1])
}
