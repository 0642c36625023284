// Package markdown is the structured renderer used by the markdown view. It
// parses block text with goldmark and reports every leaf with the 1-indexed
// source line it came from, relative to the text it was given.
package markdown

import (
	"sort"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Tag names emitted by Parse.
const (
	TagParagraph     = "p"
	TagListItem      = "li"
	TagBlockquote    = "blockquote"
	TagCode          = "code"
	TagHTML          = "html"
	TagTableHeader   = "th"
	TagTableRow      = "tr"
	TagThematicBreak = "hr"
)

func headingTag(level int) string {
	return "h" + strconv.Itoa(level)
}

// Tree is the flattened result of parsing: every leaf in document order.
type Tree struct {
	Leaves []TaggedNode `json:"leaves"`
}

// Parser parses markdown into tagged leaves.
type Parser struct {
	md       goldmark.Markdown
	registry *Registry
}

// NewParser creates a parser that dispatches leaves through registry. A nil
// registry uses DefaultRegistry.
func NewParser(registry *Registry) *Parser {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Parser{
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
		registry: registry,
	}
}

// Parse parses src and returns its leaves. Multi-line leaves such as
// paragraphs and code blocks yield one leaf per source line so every line
// can be addressed on its own.
func (p *Parser) Parse(src string) Tree {
	source := []byte(src)
	root := p.md.Parser().Parse(text.NewReader(source))
	idx := newLineIndex(source)

	var leaves []TaggedNode
	last := 0 // last source line consumed by an emitted leaf

	emit := func(tag string, line int, content string) {
		leaves = append(leaves, p.registry.Tag(tag, line, content))
		last = max(last, line)
	}

	walker := func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		tag, ok := leafTag(n)
		if !ok {
			return ast.WalkContinue, nil
		}

		switch n.Kind() {
		case extast.KindTableHeader, extast.KindTableRow:
			emit(tag, firstTextLine(n, idx), rowText(n, source))
			return ast.WalkSkipChildren, nil
		case ast.KindThematicBreak:
			// goldmark keeps no position for breaks; it is the next break
			// line after everything emitted so far.
			line := idx.nextBreak(source, last+1)
			emit(tag, line, strings.TrimSpace(idx.text(source, line)))
			return ast.WalkSkipChildren, nil
		}

		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			content := strings.TrimRight(string(seg.Value(source)), "\r\n")
			emit(tag, idx.lineOf(seg.Start), content)
		}

		// A setext underline belongs to the heading above it.
		if n.Kind() == ast.KindHeading && lines.Len() > 0 {
			first := idx.lineOf(lines.At(0).Start)
			if !strings.HasPrefix(strings.TrimSpace(idx.text(source, first)), "#") {
				last++
			}
		}
		return ast.WalkSkipChildren, nil
	}

	// The walker never returns an error.
	_ = ast.Walk(root, walker)

	return Tree{Leaves: leaves}
}

// leafTag returns the tag name of a node that is rendered as a leaf.
func leafTag(n ast.Node) (string, bool) {
	switch node := n.(type) {
	case *ast.Heading:
		return headingTag(node.Level), true
	case *ast.Paragraph, *ast.TextBlock:
		if parent := n.Parent(); parent != nil {
			switch parent.Kind() {
			case ast.KindListItem:
				return TagListItem, true
			case ast.KindBlockquote:
				return TagBlockquote, true
			}
		}
		return TagParagraph, true
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return TagCode, true
	case *ast.HTMLBlock:
		return TagHTML, true
	case *ast.ThematicBreak:
		return TagThematicBreak, true
	case *extast.TableHeader:
		return TagTableHeader, true
	case *extast.TableRow:
		return TagTableRow, true
	}
	return "", false
}

// rowText joins the plain text of a table row's cells.
func rowText(row ast.Node, source []byte) string {
	var cells []string
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		cells = append(cells, strings.TrimSpace(plainText(c, source)))
	}
	return strings.Join(cells, " | ")
}

// plainText concatenates the text segments below n.
func plainText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// firstTextLine returns the source line of the first text segment below n,
// or 0 when n has no text.
func firstTextLine(n ast.Node, idx lineIndex) int {
	line := 0
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := child.(*ast.Text); ok {
			line = idx.lineOf(t.Segment.Start)
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return line
}

// lineIndex maps byte offsets to 1-indexed line numbers.
type lineIndex []int

func newLineIndex(source []byte) lineIndex {
	starts := lineIndex{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func (idx lineIndex) lineOf(offset int) int {
	return sort.Search(len(idx), func(i int) bool { return idx[i] > offset })
}

// text returns line n without its line ending, or "" when n is out of range.
func (idx lineIndex) text(source []byte, n int) string {
	if n < 1 || n > len(idx) {
		return ""
	}
	end := len(source)
	if n < len(idx) {
		end = idx[n]
	}
	return strings.TrimRight(string(source[idx[n-1]:end]), "\r\n")
}

// nextBreak returns the first line at or after from that is a thematic
// break, or 0 when there is none.
func (idx lineIndex) nextBreak(source []byte, from int) int {
	for n := max(from, 1); n <= len(idx); n++ {
		if isThematicBreak(idx.text(source, n)) {
			return n
		}
	}
	return 0
}

// isThematicBreak reports whether line is three or more of the same '*', '-'
// or '_' with optional spaces, after any blockquote markers.
func isThematicBreak(line string) bool {
	line = strings.TrimLeft(line, " \t>")
	var mark rune
	count := 0
	for _, r := range line {
		switch {
		case r == ' ' || r == '\t':
		case (r == '*' || r == '-' || r == '_') && (mark == 0 || r == mark):
			mark = r
			count++
		default:
			return false
		}
	}
	return count >= 3
}
