package models

// FixedOption is one of the five Likert choices shared by every
// question. The table is global and constant; marks are always resolved
// server-side from the label, never taken from client input.
type FixedOption struct {
	Label string `json:"label"`
	Text  string `json:"text"`
	Marks int    `json:"-"`
}

// DefaultOptionLabel is what an automatic (timed-out) submission selects
// when the participant made no choice.
const DefaultOptionLabel = "C"

var fixedOptions = []FixedOption{
	{Label: "A", Text: "Strongly Agree", Marks: 5},
	{Label: "B", Text: "Agree", Marks: 4},
	{Label: "C", Text: "Neutral", Marks: 3},
	{Label: "D", Text: "Disagree", Marks: 2},
	{Label: "E", Text: "Strongly Disagree", Marks: 1},
}

// MaxMarksPerQuestion is the Likert ceiling, used as the per-question
// denominator in percentage rollups.
const MaxMarksPerQuestion = 5

// FixedOptions returns the option table in display order A..E.
func FixedOptions() []FixedOption {
	out := make([]FixedOption, len(fixedOptions))
	copy(out, fixedOptions)
	return out
}

// MarksForOption resolves a label to its marks. The second return is
// false for anything outside A..E.
func MarksForOption(label string) (int, bool) {
	for _, o := range fixedOptions {
		if o.Label == label {
			return o.Marks, true
		}
	}
	return 0, false
}
