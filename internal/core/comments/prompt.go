package comments

import (
	"fmt"
	"strings"

	"github.com/hay-kot/plandiff/pkg/tmpl"
)

// DefaultPromptHeader is the first line of a serialized prompt.
const DefaultPromptHeader = "Please address the following review comments on the updated plan:"

// HeaderData is available to a prompt header written as a text/template,
// e.g. "Feedback on {{ base .New }} ({{ .Count }} comments):".
type HeaderData struct {
	Old   string // name of the old document, "rev:path" for revisions
	New   string
	Count int
}

// RenderHeader expands header with data. Headers without template actions
// are returned unchanged.
func RenderHeader(header string, data HeaderData) (string, error) {
	if !tmpl.IsTemplate(header) {
		return header, nil
	}
	out, err := tmpl.Render(header, data)
	if err != nil {
		return "", fmt.Errorf("prompt header: %w", err)
	}
	return out, nil
}

// Serialize builds the prompt text for all comments using DefaultPromptHeader.
func (s *Store) Serialize() string {
	return s.SerializeWithHeader(DefaultPromptHeader)
}

// SerializeWithHeader builds the prompt text for all comments in sorted order.
// Format:
//
//	<header>
//
//	<label>: `<source line>`
//	Comment: <comment>
//
//	<label>: `<source line>`
//	Comment: <comment>
//
// An empty store serializes to an empty string.
func (s *Store) SerializeWithHeader(header string) string {
	var b strings.Builder

	i := 0
	for c := range s.Sorted() {
		if i == 0 {
			b.WriteString(header)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s: `%s`\n", c.Label, c.SourceLine)
		fmt.Fprintf(&b, "Comment: %s\n", c.Text)
		i++
	}

	return b.String()
}
