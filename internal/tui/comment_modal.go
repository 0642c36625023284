package tui

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/hay-kot/plandiff/internal/core/comments"
	"github.com/hay-kot/plandiff/internal/core/sections"
	"github.com/hay-kot/plandiff/internal/core/styles"
)

const previewWidth = 100

// CommentModal collects the text of a comment on one line.
type CommentModal struct {
	textInput textinput.Model
	label     string // e.g. "Line 12"
	preview   string

	// Target of the comment. Anchor is set for structured-view leaves.
	key       comments.Key
	anchor    *sections.Anchor
	localLine int

	width     int
	submitted bool
	cancelled bool
}

// NewCommentModal creates a modal for the line labelled label.
func NewCommentModal(label, sourceLine string, width int) CommentModal {
	ti := textinput.New()
	ti.Placeholder = "Enter your review comment..."
	ti.Focus()
	ti.SetWidth(max(width-10, 20))

	return CommentModal{
		textInput: ti,
		label:     label,
		preview:   ansi.Truncate(sourceLine, previewWidth, "..."),
		width:     width,
	}
}

// SetExistingComment pre-fills the input when editing a comment.
func (m *CommentModal) SetExistingComment(text string) {
	m.textInput.SetValue(text)
	m.textInput.CursorEnd()
}

// Update handles messages.
func (m CommentModal) Update(msg tea.Msg) (CommentModal, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			if strings.TrimSpace(m.textInput.Value()) != "" {
				m.submitted = true
				return m, nil
			}
		case "esc":
			m.cancelled = true
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// View renders the modal.
func (m CommentModal) View() string {
	content := strings.Join([]string{
		styles.ModalTitleStyle.Render("Add Review Comment"),
		styles.StatsStyle.Render(m.label),
		styles.CommentTextStyle.Render("\"" + m.preview + "\""),
		"",
		m.textInput.View(),
		styles.ModalHelpStyle.Render("enter: submit • esc: cancel"),
	}, "\n")

	return styles.ModalStyle.Render(content)
}

// Submitted returns true if the comment was submitted.
func (m CommentModal) Submitted() bool { return m.submitted }

// Cancelled returns true if the modal was cancelled.
func (m CommentModal) Cancelled() bool { return m.cancelled }

// Value returns the entered comment text.
func (m CommentModal) Value() string {
	return strings.TrimSpace(m.textInput.Value())
}
