package domain

// Labels a judge may answer with. The assembled rubric quotes these
// literally, so the strings must not change independently of it.
const (
	LabelOutputA = "Output (a)"
	LabelOutputB = "Output (b)"
)

// CorrectPair restores canonical ordering of a preference pair. A flag of 0
// means the source labels are inverted, so the pair is returned swapped;
// any other value returns it unchanged.
func CorrectPair(chosen, rejected string, flag int) (string, string) {
	if flag == 0 {
		return rejected, chosen
	}
	return chosen, rejected
}

// Slot is the display position assigned to the corrected chosen text for one
// record. It is the single piece of accumulator state threaded through a
// reformatting run: alternating it per record keeps either side of the pair
// in position "a" for roughly half the output file, which neutralizes a
// judge's positional bias. Runs always start at SlotA.
type Slot int

const (
	// SlotA places the chosen text in position "a".
	SlotA Slot = iota

	// SlotB places the chosen text in position "b".
	SlotB
)

// StartSlot is the slot for the first record of every run.
const StartSlot = SlotA

// Label returns the answer label naming the slot's position.
func (s Slot) Label() string {
	if s == SlotA {
		return LabelOutputA
	}
	return LabelOutputB
}

// Next returns the opposite slot. Callers advance once per emitted record;
// skipped records must not advance the slot.
func (s Slot) Next() Slot {
	if s == SlotA {
		return SlotB
	}
	return SlotA
}

// Arrange maps the corrected pair onto display positions. The returned
// strings are the texts for positions "a" and "b" respectively.
func (s Slot) Arrange(chosen, rejected string) (aText, bText string) {
	if s == SlotA {
		return chosen, rejected
	}
	return rejected, chosen
}
