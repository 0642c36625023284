package sections

import "github.com/hay-kot/plandiff/internal/core/linediff"

// FlatLine is a single line of the structured view tagged with its origin.
type FlatLine struct {
	Text    string   `json:"text"`
	Type    DiffType `json:"type"`
	Section ID       `json:"section"`
	Offset  int      `json:"offset"` // 0-indexed position within the section's run of Type
}

// Flatten expands every section into its individual lines. Offsets restart at
// 0 for each (section, diff type) run, so the added lines of a Modified
// section are numbered independently of its removed lines.
func Flatten(set *Set) []FlatLine {
	var out []FlatLine

	emit := func(id ID, typ DiffType, text string) {
		for i, line := range linediff.SplitLines(text) {
			out = append(out, FlatLine{Text: line, Type: typ, Section: id, Offset: i})
		}
	}

	for _, sec := range set.All() {
		switch sec.Kind {
		case KindContext:
			emit(sec.ID, Context, sec.Text)
		case KindAdded:
			emit(sec.ID, Added, sec.Text)
		case KindRemoved:
			emit(sec.ID, Removed, sec.Text)
		case KindModified:
			emit(sec.ID, Removed, sec.RemovedText)
			emit(sec.ID, Added, sec.AddedText)
		}
	}

	return out
}
