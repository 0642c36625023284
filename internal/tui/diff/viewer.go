package diff

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/hay-kot/plandiff/internal/core/comments"
	"github.com/hay-kot/plandiff/internal/core/linediff"
	"github.com/hay-kot/plandiff/internal/core/styles"
)

// headerHeight is the fixed height of the viewer header (title line + separator).
const headerHeight = 2

// ViewerModel displays rows with a line cursor and comment markers.
type ViewerModel struct {
	title  string
	stats  linediff.Stats
	rows   []Row
	marked map[comments.Key]bool

	cursor int // index into rows
	offset int // top visible row
	width  int
	height int
}

// NewViewer creates an empty viewer.
func NewViewer() ViewerModel {
	return ViewerModel{marked: make(map[comments.Key]bool)}
}

// SetSize sets the dimensions available to the viewer, header included.
func (m *ViewerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clamp()
}

// SetHeader sets the title and change counts shown above the rows.
func (m *ViewerModel) SetHeader(title string, stats linediff.Stats) {
	m.title = title
	m.stats = stats
}

// SetRows replaces the rows. The cursor stays on the row with the same
// comment key when one exists, otherwise it moves to the nearest selectable
// row.
func (m *ViewerModel) SetRows(rows []Row) {
	var key comments.Key
	if row, ok := m.CurrentRow(); ok {
		key = row.Key
	}

	m.rows = rows

	if key != "" {
		for i, r := range rows {
			if r.Key == key {
				m.cursor = i
				m.clamp()
				return
			}
		}
	}

	m.cursor = min(m.cursor, max(len(rows)-1, 0))
	m.cursor = m.seek(m.cursor, 1)
	m.clamp()
}

// ApplyHighlights updates comment markers from a highlight diff.
func (m *ViewerModel) ApplyHighlights(changes []comments.Highlight) {
	for _, h := range changes {
		if h.On {
			m.marked[h.Key] = true
		} else {
			delete(m.marked, h.Key)
		}
	}
}

// Marked reports whether key carries a comment marker.
func (m ViewerModel) Marked(key comments.Key) bool {
	return m.marked[key]
}

// CurrentRow returns the row under the cursor.
func (m ViewerModel) CurrentRow() (Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return Row{}, false
	}
	return m.rows[m.cursor], true
}

// Cursor returns the index of the row under the cursor.
func (m ViewerModel) Cursor() int { return m.cursor }

// Offset returns the index of the first visible row.
func (m ViewerModel) Offset() int { return m.offset }

// Rows returns the rows being displayed.
func (m ViewerModel) Rows() []Row { return m.rows }

func (m ViewerModel) contentHeight() int {
	return max(m.height-headerHeight, 1)
}

// seek returns the first selectable row from i in direction dir, or i when
// there is none.
func (m ViewerModel) seek(i, dir int) int {
	for j := i; j >= 0 && j < len(m.rows); j += dir {
		if m.rows[j].Selectable() {
			return j
		}
	}
	for j := i - dir; j >= 0 && j < len(m.rows); j -= dir {
		if m.rows[j].Selectable() {
			return j
		}
	}
	return max(min(i, len(m.rows)-1), 0)
}

// clamp keeps the cursor within the visible window.
func (m *ViewerModel) clamp() {
	h := m.contentHeight()
	maxOffset := max(len(m.rows)-h, 0)

	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	m.offset = max(min(m.offset, maxOffset), 0)
}

// move steps the cursor n selectable rows forward (or backward when n < 0).
func (m *ViewerModel) move(n int) {
	dir := 1
	if n < 0 {
		dir, n = -1, -n
	}
	for range n {
		next := -1
		for j := m.cursor + dir; j >= 0 && j < len(m.rows); j += dir {
			if m.rows[j].Selectable() {
				next = j
				break
			}
		}
		if next < 0 {
			break
		}
		m.cursor = next
	}
	m.clamp()
}

// Update handles navigation keys.
func (m ViewerModel) Update(msg tea.Msg) (ViewerModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.rows) == 0 {
		return m, nil
	}

	half := max(m.contentHeight()/2, 1)

	switch keyMsg.String() {
	case "j", "down":
		m.move(1)
	case "k", "up":
		m.move(-1)
	case "ctrl+d", "pgdown":
		m.cursor = m.seek(min(m.cursor+half, len(m.rows)-1), 1)
		m.clamp()
	case "ctrl+u", "pgup":
		m.cursor = m.seek(max(m.cursor-half, 0), -1)
		m.clamp()
	case "g", "home":
		m.cursor = m.seek(0, 1)
		m.offset = 0
		m.clamp()
	case "G", "end":
		m.cursor = m.seek(len(m.rows)-1, -1)
		m.clamp()
	}
	return m, nil
}

// View renders the header and the visible rows with a cursor gutter.
func (m ViewerModel) View() string {
	if len(m.rows) == 0 {
		return m.renderEmptyState("Nothing to compare", "Both documents are empty")
	}

	end := min(m.offset+m.contentHeight(), len(m.rows))
	lines := make([]string, 0, end-m.offset)

	for i := m.offset; i < end; i++ {
		row := m.rows[i]

		cursor := " "
		if i == m.cursor {
			cursor = styles.CursorStyle.Render("▶")
		}

		marker := " "
		if row.Key != "" && m.marked[row.Key] {
			marker = styles.CommentMarkerStyle.Render("●")
		}

		line := cursor + marker + "│ " + row.Content
		if m.width > 0 {
			line = ansi.Truncate(line, m.width, "…")
		}
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), strings.Join(lines, "\n"))
}

func (m ViewerModel) renderHeader() string {
	stats := styles.StatsStyle.Render(fmt.Sprintf("(-%d, +%d)", m.stats.Removed, m.stats.Added))
	info := styles.HeaderStyle.Render(m.title) + " " + stats

	return info + "\n" + styles.DividerStyle.Render(strings.Repeat("─", max(m.width-1, 1)))
}

func (m ViewerModel) renderEmptyState(title, hint string) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		styles.HeaderStyle.Render(title),
		styles.StatsStyle.Render(hint),
		"",
	)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
