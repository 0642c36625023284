package comments

import "slices"

// Highlight tells the presentation layer to turn the comment marker of a line
// on or off.
type Highlight struct {
	Key Key
	On  bool
}

// HighlightDiff compares two sets of commented keys and returns the markers
// that changed, removals first, each group in the order of its input.
// Callers compute it whenever the store changes and apply the result to
// their own view state.
func HighlightDiff(before, after []Key) []Highlight {
	var out []Highlight

	for _, k := range before {
		if !slices.Contains(after, k) {
			out = append(out, Highlight{Key: k, On: false})
		}
	}
	for _, k := range after {
		if !slices.Contains(before, k) {
			out = append(out, Highlight{Key: k, On: true})
		}
	}

	return out
}
