package markdown

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/hay-kot/plandiff/internal/core/styles"
)

// minWrapWidth is the narrowest word-wrap width handed to glamour.
const minWrapWidth = 20

// Renderer renders markdown for the terminal using the active theme.
type Renderer struct {
	tr *glamour.TermRenderer
}

// NewRenderer creates a terminal renderer that wraps at width columns.
func NewRenderer(width int) (*Renderer, error) {
	tr, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(max(width, minWrapWidth)),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{tr: tr}, nil
}

// Render renders src and trims the blank lines glamour adds around it.
func (r *Renderer) Render(src string) (string, error) {
	out, err := r.tr.Render(src)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n"), nil
}
