// Package styles provides shared lipgloss v2 styles for the diff output and
// the review TUI.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color

	// Tinted backgrounds for changed lines.
	ColorAddedBg   color.Color
	ColorRemovedBg color.Color
)

var (
	// CLI styles.
	HeaderStyle  lipgloss.Style
	DividerStyle lipgloss.Style
	HunkStyle    lipgloss.Style
	StatsStyle   lipgloss.Style

	// Diff lines.
	DiffAddedStyle   lipgloss.Style
	DiffRemovedStyle lipgloss.Style
	DiffContextStyle lipgloss.Style
	GutterStyle      lipgloss.Style
	CursorStyle      lipgloss.Style

	CommentMarkerStyle lipgloss.Style
	CommentTextStyle   lipgloss.Style

	// TUI chrome.
	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
	ModalHelpStyle  lipgloss.Style

	ViewSelectedStyle lipgloss.Style
	ViewNormalStyle   lipgloss.Style
	StatusStyle       lipgloss.Style
	StatusOKStyle     lipgloss.Style
	StatusErrStyle    lipgloss.Style

	// JSON output on a terminal.
	JSONKeyStyle     lipgloss.Style
	JSONStringStyle  lipgloss.Style
	JSONNumberStyle  lipgloss.Style
	JSONLiteralStyle lipgloss.Style
	JSONPunctStyle   lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	ColorAddedBg = Blend(p.Background, p.Success, 0.18)
	ColorRemovedBg = Blend(p.Background, p.Error, 0.18)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	HunkStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)
	StatsStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	DiffAddedStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Background(ColorAddedBg)
	DiffRemovedStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Background(ColorRemovedBg)
	DiffContextStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	GutterStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	CursorStyle = lipgloss.NewStyle().
		Background(ColorSurface).
		Bold(true)

	CommentMarkerStyle = lipgloss.NewStyle().
		Foreground(ColorWarning).
		Bold(true)
	CommentTextStyle = lipgloss.NewStyle().
		Foreground(ColorWarning).
		Italic(true)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)

	ViewSelectedStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	ViewNormalStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	StatusStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	StatusOKStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess)
	StatusErrStyle = lipgloss.NewStyle().
		Foreground(ColorError)

	JSONKeyStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary)
	JSONStringStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess)
	JSONNumberStyle = lipgloss.NewStyle().
		Foreground(ColorWarning)
	JSONLiteralStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)
	JSONPunctStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
}

// SetThemeByName activates a built-in theme. It reports false and leaves the
// active theme untouched when name is unknown.
func SetThemeByName(name string) bool {
	p, ok := GetPalette(name)
	if !ok {
		return false
	}
	SetTheme(p)
	return true
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
