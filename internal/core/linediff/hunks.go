package linediff

// LineType is the display type of a single diff line.
type LineType int

const (
	LineContext LineType = iota // Line present in both documents
	LineAdded                   // Line present only in the new document
	LineRemoved                 // Line present only in the old document
)

// String returns the string representation of the line type.
func (t LineType) String() string {
	switch t {
	case LineContext:
		return "context"
	case LineAdded:
		return "added"
	case LineRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the line type by name.
func (t LineType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Marker returns the unified diff prefix character for the line type.
func (t LineType) Marker() string {
	switch t {
	case LineAdded:
		return "+"
	case LineRemoved:
		return "-"
	default:
		return " "
	}
}

// Line is a single line of a diff with its position in both documents.
type Line struct {
	Type    LineType `json:"type"`
	Text    string   `json:"text"`
	OldLine int      `json:"old_line"` // 1-indexed line in the old document (0 if not applicable)
	NewLine int      `json:"new_line"` // 1-indexed line in the new document (0 if not applicable)
}

// Hunk is a contiguous, context-padded run of diff lines.
type Hunk struct {
	Lines     []Line `json:"lines"`
	GapBefore int    `json:"gap_before"` // hidden lines immediately before the hunk
	GapAfter  int    `json:"gap_after"`  // hidden lines immediately after the hunk
}

// OldStart returns the first old-document line covered by the hunk, or 0 if
// the hunk only contains additions.
func (h Hunk) OldStart() int {
	for _, l := range h.Lines {
		if l.OldLine > 0 {
			return l.OldLine
		}
	}
	return 0
}

// NewStart returns the first new-document line covered by the hunk, or 0 if
// the hunk only contains removals.
func (h Hunk) NewStart() int {
	for _, l := range h.Lines {
		if l.NewLine > 0 {
			return l.NewLine
		}
	}
	return 0
}

// DefaultContextLines is the number of unchanged lines shown around a change.
const DefaultContextLines = 3

// Lines expands ops into individual lines numbered against both documents.
func Lines(ops []Op) []Line {
	var (
		out     []Line
		oldLine = 1
		newLine = 1
	)

	for _, op := range ops {
		for _, text := range op.Lines() {
			switch op.Kind {
			case Equal:
				out = append(out, Line{Type: LineContext, Text: text, OldLine: oldLine, NewLine: newLine})
				oldLine++
				newLine++
			case Insert:
				out = append(out, Line{Type: LineAdded, Text: text, NewLine: newLine})
				newLine++
			case Delete:
				out = append(out, Line{Type: LineRemoved, Text: text, OldLine: oldLine})
				oldLine++
			}
		}
	}

	return out
}

// BuildHunks groups the lines of ops into hunks, showing contextLines
// unchanged lines around every change. Negative contextLines is treated as 0.
// When nothing changed the result is empty.
func BuildHunks(ops []Op, contextLines int) []Hunk {
	contextLines = max(contextLines, 0)
	lines := Lines(ops)

	visible := make([]bool, len(lines))
	changed := false
	for i, l := range lines {
		if l.Type == LineContext {
			continue
		}
		changed = true
		lo := max(i-contextLines, 0)
		hi := min(i+contextLines, len(lines)-1)
		for j := lo; j <= hi; j++ {
			visible[j] = true
		}
	}

	if !changed {
		return nil
	}

	var (
		hunks  []Hunk
		start  = -1
		hidden = 0 // hidden lines since the previous hunk (or document start)
	)

	for i := 0; i <= len(lines); i++ {
		if i < len(lines) && visible[i] {
			if start < 0 {
				start = i
			}
			continue
		}

		if start >= 0 {
			hunks = append(hunks, Hunk{
				Lines:     lines[start:i],
				GapBefore: hidden,
			})
			start = -1
			hidden = 0
		}
		if i < len(lines) {
			hidden++
		}
	}

	// Hidden lines between two hunks are reported on both sides of the gap.
	for i := range hunks {
		if i+1 < len(hunks) {
			hunks[i].GapAfter = hunks[i+1].GapBefore
		} else {
			hunks[i].GapAfter = hidden
		}
	}

	return hunks
}

// Stats holds added and removed line counts for a diff.
type Stats struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

// CountStats counts added and removed lines across ops.
func CountStats(ops []Op) Stats {
	var s Stats
	for _, op := range ops {
		switch op.Kind {
		case Insert:
			s.Added += CountLines(op.Text)
		case Delete:
			s.Removed += CountLines(op.Text)
		}
	}
	return s
}
