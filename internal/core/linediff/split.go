package linediff

// ViewMode selects how raw hunks are laid out.
type ViewMode string

const (
	ViewUnified ViewMode = "unified"
	ViewSplit   ViewMode = "split"
)

// IsValid reports whether the view mode is a supported mode.
func (m ViewMode) IsValid() bool {
	switch m {
	case ViewUnified, ViewSplit:
		return true
	default:
		return false
	}
}

// SplitRow is one row of a side-by-side layout. A nil side is a blank
// placeholder that keeps both columns the same height.
type SplitRow struct {
	Left  *Line `json:"left"`
	Right *Line `json:"right"`
}

// SplitRows lays a hunk out for side-by-side display. Consecutive removed
// lines are paired positionally with the added lines that follow them and
// context lines appear on both sides.
func SplitRows(h Hunk) []SplitRow {
	var (
		rows    []SplitRow
		removed []*Line
		added   []*Line
	)

	flush := func() {
		n := max(len(removed), len(added))
		for i := 0; i < n; i++ {
			var row SplitRow
			if i < len(removed) {
				row.Left = removed[i]
			}
			if i < len(added) {
				row.Right = added[i]
			}
			rows = append(rows, row)
		}
		removed = nil
		added = nil
	}

	for i := range h.Lines {
		l := &h.Lines[i]
		switch l.Type {
		case LineRemoved:
			// A removal after additions starts a new pairing group.
			if len(added) > 0 {
				flush()
			}
			removed = append(removed, l)
		case LineAdded:
			added = append(added, l)
		default:
			flush()
			rows = append(rows, SplitRow{Left: l, Right: l})
		}
	}
	flush()

	return rows
}
