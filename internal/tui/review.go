// Package tui implements the interactive review screen of plandiff.
package tui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/hay-kot/plandiff/internal/core/comments"
	"github.com/hay-kot/plandiff/internal/core/linediff"
	"github.com/hay-kot/plandiff/internal/core/logging"
	"github.com/hay-kot/plandiff/internal/core/markdown"
	"github.com/hay-kot/plandiff/internal/core/styles"
	"github.com/hay-kot/plandiff/internal/engine"
	"github.com/hay-kot/plandiff/internal/source"
	"github.com/hay-kot/plandiff/internal/tui/diff"
	"github.com/hay-kot/plandiff/internal/watch"
)

// statusHeight is the number of lines below the viewer.
const statusHeight = 2

type (
	loadedMsg struct {
		docs source.Documents
		err  error
	}
	watchMsg struct{ event watch.Event }
	copiedMsg struct{ err error }
)

// Options configures the review TUI.
type Options struct {
	Source       source.Source
	Engine       *engine.Engine
	Mode         diff.Mode
	Parser       *markdown.Parser
	PromptHeader string
	Copier       Copier

	// Events delivers file changes. A nil channel disables live reload.
	Events <-chan watch.Event
}

// Model is the interactive review screen: a diff of the two documents in one
// of three layouts where lines can be commented on.
type Model struct {
	ctx    context.Context
	log    zerolog.Logger
	src    source.Source
	eng    *engine.Engine
	parser *markdown.Parser
	copier Copier
	header string
	events <-chan watch.Event
	keys   KeyMap

	mode    diff.Mode
	viewer  diff.ViewerModel
	modal   *CommentModal
	preview viewport.Model
	showing bool // prompt preview visible
	marked  []comments.Key
	docs    source.Documents

	status    string
	statusErr bool
	width     int
	height    int

	loaded   bool
	finished bool
	quitting bool
}

// New creates the review model.
func New(ctx context.Context, opts Options) Model {
	mode := opts.Mode
	if mode == "" {
		mode = diff.ModeUnified
	}
	parser := opts.Parser
	if parser == nil {
		parser = markdown.NewParser(nil)
	}
	copier := opts.Copier
	if copier == nil {
		copier = NewCopier("")
	}

	ctx = logging.WithReviewID(ctx, opts.Engine.ID())

	m := Model{
		ctx:     ctx,
		log:     logging.Component("tui"),
		src:     opts.Source,
		eng:     opts.Engine,
		parser:  parser,
		copier:  copier,
		header:  opts.PromptHeader,
		events:  opts.Events,
		keys:    DefaultKeyMap(),
		mode:    mode,
		viewer:  diff.NewViewer(),
		preview: viewport.New(viewport.WithWidth(80), viewport.WithHeight(20)),
		width:   80,
		height:  24,
	}
	m.viewer.SetSize(m.width, m.height-statusHeight)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.waitForEvent())
}

func (m Model) load() tea.Cmd {
	src, ctx := m.src, m.ctx
	return func() tea.Msg {
		docs, err := src.Load(ctx)
		return loadedMsg{docs: docs, err: err}
	}
}

func (m Model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return watchMsg{event: ev}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewer.SetSize(msg.Width, msg.Height-statusHeight)
		m.preview.SetWidth(msg.Width)
		m.preview.SetHeight(max(msg.Height-statusHeight, 1))
		m.rebuild()
		return m, nil

	case loadedMsg:
		m.applyLoad(msg)
		return m, nil

	case watchMsg:
		m.log.Debug().Ctx(m.ctx).Str("path", msg.event.Path).Msg("document changed on disk")
		return m, tea.Batch(m.load(), m.waitForEvent())

	case copiedMsg:
		if msg.err != nil {
			m.setError(fmt.Errorf("copy: %w", msg.err))
		} else {
			m.setStatus(fmt.Sprintf("Copied %d comment(s)", m.eng.CommentCount()))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Abort) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.modal != nil {
		return m.updateModal(msg)
	}

	if m.showing {
		switch {
		case key.Matches(msg, m.keys.Preview), msg.String() == "esc":
			m.showing = false
			return m, nil
		case key.Matches(msg, m.keys.Finish):
			return m.finish()
		}
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Finish):
		return m.finish()

	case key.Matches(msg, m.keys.SwitchView):
		m.mode = m.mode.Next()
		m.ctx = logging.WithViewMode(m.ctx, string(m.mode))
		m.log.Debug().Ctx(m.ctx).Msg("view switched")
		m.rebuild()
		return m, nil

	case key.Matches(msg, m.keys.Comment):
		m.openComment()
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		m.deleteComment()
		return m, nil

	case key.Matches(msg, m.keys.CommentMode):
		on := !m.eng.CommentMode()
		m.eng.SetCommentMode(on)
		if on {
			m.setStatus("Comment mode on")
		} else {
			m.setStatus("Comment mode off")
		}
		return m, nil

	case key.Matches(msg, m.keys.MoreContext):
		m.setContext(m.eng.ContextLines() + 1)
		return m, nil

	case key.Matches(msg, m.keys.LessContext):
		m.setContext(m.eng.ContextLines() - 1)
		return m, nil

	case key.Matches(msg, m.keys.Preview):
		m.showPreview()
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		return m, m.copyPrompt()
	}

	var cmd tea.Cmd
	m.viewer, cmd = m.viewer.Update(msg)
	return m, cmd
}

func (m Model) finish() (tea.Model, tea.Cmd) {
	m.finished = true
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) applyLoad(msg loadedMsg) {
	if msg.err != nil {
		m.setError(msg.err)
		m.log.Error().Err(msg.err).Ctx(m.ctx).Msg("load documents")
		return
	}

	m.docs = msg.docs
	before := m.eng.CommentCount()
	res, changed := m.eng.Compare(m.ctx, msg.docs.Old, msg.docs.New)
	m.ctx = logging.WithPairID(m.ctx, res.PairID)

	if changed && m.loaded {
		status := "Document changed"
		if before > 0 {
			status = fmt.Sprintf("Document changed: %d comment(s) cleared", before)
		}
		// The open comment was addressed against the previous pair.
		if m.modal != nil {
			m.modal = nil
			status += "; unsaved comment discarded"
		}
		m.setStatus(status)
	}
	m.loaded = true
	m.rebuild()
}

// rebuild lays the current result out for the active mode and refreshes the
// comment markers.
func (m *Model) rebuild() {
	res := m.eng.Result()
	if res == nil {
		return
	}

	m.viewer.SetHeader(m.src.Title(), res.Stats)
	m.viewer.SetRows(diff.Build(res, m.mode, m.width, m.parser))
	m.syncMarkers()
}

func (m *Model) syncMarkers() {
	after := m.eng.CommentKeys()
	m.viewer.ApplyHighlights(comments.HighlightDiff(m.marked, after))
	m.marked = after
}

func (m *Model) setContext(n int) {
	if n < 0 {
		return
	}
	m.eng.SetContextLines(n)
	m.rebuild()
	m.setStatus(fmt.Sprintf("Context: %d line(s)", n))
}

func (m *Model) openComment() {
	row, ok := m.viewer.CurrentRow()
	if !ok || !row.Selectable() {
		return
	}
	if !m.eng.CommentMode() {
		m.setError(engine.ErrCommentModeOff)
		return
	}
	if row.Key == "" {
		if row.Type == linediff.LineRemoved {
			m.setError(fmt.Errorf("removed lines have no address in the structured view: %w", engine.ErrInvalidAddress))
		} else {
			m.setError(engine.ErrInvalidAddress)
		}
		return
	}

	res := m.eng.Result()
	label, ok := res.Label(row.Key)
	if !ok {
		m.setError(engine.ErrInvalidAddress)
		return
	}

	modal := NewCommentModal(label, row.Source, min(m.width, 80))
	modal.key = row.Key
	modal.anchor = row.Anchor
	modal.localLine = row.LocalLine
	if c, ok := m.eng.Comment(row.Key); ok {
		modal.SetExistingComment(c.Text)
	}
	m.modal = &modal
}

func (m Model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	modal, cmd := m.modal.Update(msg)

	switch {
	case modal.Cancelled():
		m.modal = nil
		return m, nil

	case modal.Submitted():
		m.modal = nil

		var (
			c   comments.Comment
			err error
		)
		if modal.anchor != nil {
			c, err = m.eng.AddCommentAt(m.ctx, *modal.anchor, modal.localLine, modal.Value())
		} else {
			c, err = m.eng.AddComment(m.ctx, modal.key, modal.Value())
		}
		if err != nil {
			m.setError(err)
			return m, nil
		}

		m.syncMarkers()
		m.setStatus("Comment saved on " + c.Label)
		return m, nil
	}

	m.modal = &modal
	return m, cmd
}

func (m *Model) deleteComment() {
	row, ok := m.viewer.CurrentRow()
	if !ok || row.Key == "" {
		return
	}
	if m.eng.RemoveComment(m.ctx, row.Key) {
		m.syncMarkers()
		m.setStatus("Comment removed")
	}
}

func (m *Model) showPreview() {
	prompt := m.Prompt()
	if prompt == "" {
		m.setError(ErrNothingToCopy)
		return
	}
	m.preview.SetContent(prompt)
	m.preview.GotoTop()
	m.showing = true
}

func (m *Model) copyPrompt() tea.Cmd {
	prompt := m.Prompt()
	if prompt == "" {
		m.setError(ErrNothingToCopy)
		return nil
	}
	copier, ctx := m.copier, m.ctx
	return func() tea.Msg {
		return copiedMsg{err: copier(ctx, prompt)}
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

// Prompt returns the serialized comments. A header that fails to render is
// used verbatim.
func (m Model) Prompt() string {
	header, err := comments.RenderHeader(m.header, comments.HeaderData{
		Old:   m.docs.OldName,
		New:   m.docs.NewName,
		Count: m.eng.CommentCount(),
	})
	if err != nil {
		m.log.Warn().Err(err).Ctx(m.ctx).Msg("render prompt header")
		header = m.header
	}
	return m.eng.Prompt(header)
}

// Finished reports whether the review ended with the finish key, as opposed
// to being aborted.
func (m Model) Finished() bool { return m.finished }

// Mode returns the active layout.
func (m Model) Mode() diff.Mode { return m.mode }

// Status returns the status line text and whether it reports an error.
func (m Model) Status() (string, bool) { return m.status, m.statusErr }

// View implements tea.Model.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	var body string
	switch {
	case m.showing:
		body = m.preview.View()
	case !m.loaded && m.status == "":
		body = lipgloss.Place(m.width, m.height-statusHeight, lipgloss.Center, lipgloss.Center,
			styles.StatsStyle.Render("Loading documents..."))
	default:
		body = m.viewer.View()
	}

	if m.modal != nil {
		body = lipgloss.Place(m.width, m.height-statusHeight, lipgloss.Center, lipgloss.Center, m.modal.View())
	}

	v := tea.NewView(lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatus()))
	v.AltScreen = true
	return v
}

func (m Model) renderStatus() string {
	var tabs []string
	for _, mode := range diff.Modes {
		style := styles.ViewNormalStyle
		if mode == m.mode {
			style = styles.ViewSelectedStyle
		}
		tabs = append(tabs, style.Render(string(mode)))
	}

	info := strings.Join(tabs, " ") + "  " +
		styles.StatsStyle.Render(fmt.Sprintf("%d comment(s) · context %d", m.eng.CommentCount(), m.eng.ContextLines()))

	status := m.status
	switch {
	case status == "":
		status = styles.StatusStyle.Render(helpLine(m.keys.ShortHelp()))
	case m.statusErr:
		status = styles.StatusErrStyle.Render(status)
	default:
		status = styles.StatusOKStyle.Render(status)
	}

	return info + "\n" + status
}

func helpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
