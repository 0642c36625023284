// Package diff lays a document comparison out as display rows and provides
// the cursor-driven viewer the review TUI is built on.
package diff

import (
	"fmt"
	"strconv"
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/hay-kot/plandiff/internal/core/comments"
	"github.com/hay-kot/plandiff/internal/core/linediff"
	"github.com/hay-kot/plandiff/internal/core/markdown"
	"github.com/hay-kot/plandiff/internal/core/sections"
	"github.com/hay-kot/plandiff/internal/core/styles"
	"github.com/hay-kot/plandiff/internal/engine"
)

// Mode selects the layout of the rows.
type Mode string

const (
	ModeUnified    Mode = Mode(linediff.ViewUnified)
	ModeSplit      Mode = Mode(linediff.ViewSplit)
	ModeStructured Mode = "structured"
)

// Modes lists the layouts in the order the viewer cycles through them.
var Modes = []Mode{ModeUnified, ModeSplit, ModeStructured}

// Next returns the mode after m, wrapping around.
func (m Mode) Next() Mode {
	for i, mode := range Modes {
		if mode == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return ModeUnified
}

// RowKind distinguishes content rows from decoration.
type RowKind int

const (
	RowLine  RowKind = iota // A document line
	RowHunk                 // Hunk header
	RowGap                  // Hidden unchanged lines
	RowFence                // Code fence in the structured view
	RowEmpty                // Placeholder shown when nothing changed
)

// Row is one rendered line of the viewer.
type Row struct {
	Kind    RowKind
	Type    linediff.LineType
	Content string // styled text, without gutter
	Source  string // plain source text of the line

	// Key is the comment address of the row, empty when the row has none.
	Key comments.Key

	// Anchor and LocalLine locate a structured-view leaf for address
	// resolution. Anchor is nil outside the structured view.
	Anchor    *sections.Anchor
	LocalLine int
}

// Selectable reports whether the cursor can rest on the row. Every document
// line is selectable, including removed lines that have no comment target.
func (r Row) Selectable() bool {
	return r.Kind == RowLine
}

// Build lays res out for mode at the given width.
func Build(res *engine.Result, mode Mode, width int, parser *markdown.Parser) []Row {
	if res == nil {
		return nil
	}
	switch mode {
	case ModeSplit:
		return SplitRows(res, width)
	case ModeStructured:
		return StructuredRows(res, parser)
	default:
		return UnifiedRows(res)
	}
}

func emptyRows() []Row {
	return []Row{{Kind: RowEmpty, Content: styles.StatsStyle.Render("No changes")}}
}

func gapRow(n int) Row {
	noun := "lines"
	if n == 1 {
		noun = "line"
	}
	return Row{Kind: RowGap, Content: styles.DividerStyle.Render(fmt.Sprintf("⋯ %d unchanged %s", n, noun))}
}

// HunkHeader formats the "@@ -a,b +c,d @@" header of h.
func HunkHeader(h linediff.Hunk) string {
	var oldCount, newCount int
	for _, l := range h.Lines {
		if l.OldLine > 0 {
			oldCount++
		}
		if l.NewLine > 0 {
			newCount++
		}
	}
	return fmt.Sprintf("@@ -%s +%s @@", hunkRange(h.OldStart(), oldCount), hunkRange(h.NewStart(), newCount))
}

func hunkRange(start, count int) string {
	if count == 1 {
		return strconv.Itoa(start)
	}
	return strconv.Itoa(start) + "," + strconv.Itoa(count)
}

// lineStyle returns the style for a diff line type.
func lineStyle(t linediff.LineType) lipgloss.Style {
	switch t {
	case linediff.LineAdded:
		return styles.DiffAddedStyle
	case linediff.LineRemoved:
		return styles.DiffRemovedStyle
	default:
		return styles.DiffContextStyle
	}
}

func lineNumber(n int) string {
	if n == 0 {
		return "    "
	}
	return fmt.Sprintf("%4d", n)
}

// UnifiedRows lays the hunks out one line per row with both line numbers.
func UnifiedRows(res *engine.Result) []Row {
	if len(res.Hunks) == 0 {
		return emptyRows()
	}

	var rows []Row
	for i, h := range res.Hunks {
		if h.GapBefore > 0 {
			rows = append(rows, gapRow(h.GapBefore))
		}
		rows = append(rows, Row{Kind: RowHunk, Content: styles.HunkStyle.Render(HunkHeader(h))})

		for _, l := range h.Lines {
			key, _ := engine.KeyForLine(l)
			gutter := styles.GutterStyle.Render(lineNumber(l.OldLine) + " " + lineNumber(l.NewLine) + " ")
			rows = append(rows, Row{
				Kind:    RowLine,
				Type:    l.Type,
				Content: gutter + lineStyle(l.Type).Render(l.Type.Marker()+" "+l.Text),
				Source:  l.Text,
				Key:     key,
			})
		}

		if i == len(res.Hunks)-1 && h.GapAfter > 0 {
			rows = append(rows, gapRow(h.GapAfter))
		}
	}
	return rows
}

// splitSeparator divides the two columns of the split view.
const splitSeparator = " │ "

// SplitRows lays the hunks out side by side, old on the left and new on the
// right. A row's comment key belongs to its right side when present.
func SplitRows(res *engine.Result, width int) []Row {
	if len(res.Hunks) == 0 {
		return emptyRows()
	}

	colWidth := max((width-ansi.StringWidth(splitSeparator))/2, 12)

	var rows []Row
	for i, h := range res.Hunks {
		if h.GapBefore > 0 {
			rows = append(rows, gapRow(h.GapBefore))
		}
		rows = append(rows, Row{Kind: RowHunk, Content: styles.HunkStyle.Render(HunkHeader(h))})

		for _, sr := range linediff.SplitRows(h) {
			row := Row{
				Kind:    RowLine,
				Content: splitCell(sr.Left, true, colWidth) + styles.DividerStyle.Render(splitSeparator) + splitCell(sr.Right, false, colWidth),
			}

			switch {
			case sr.Right != nil:
				row.Type = sr.Right.Type
				row.Source = sr.Right.Text
				row.Key, _ = engine.KeyForLine(*sr.Right)
			case sr.Left != nil:
				row.Type = sr.Left.Type
				row.Source = sr.Left.Text
				row.Key, _ = engine.KeyForLine(*sr.Left)
			}
			rows = append(rows, row)
		}

		if i == len(res.Hunks)-1 && h.GapAfter > 0 {
			rows = append(rows, gapRow(h.GapAfter))
		}
	}
	return rows
}

// splitCell renders one side of a split row padded to width.
func splitCell(l *linediff.Line, left bool, width int) string {
	if l == nil {
		return strings.Repeat(" ", width)
	}

	num := l.NewLine
	if left {
		num = l.OldLine
	}

	marker := " "
	if l.Type != linediff.LineContext {
		marker = l.Type.Marker()
	}

	text := ansi.Truncate(marker+" "+l.Text, max(width-5, 1), "…")
	cell := styles.GutterStyle.Render(lineNumber(num)+" ") + lineStyle(l.Type).Render(text)
	return padRight(cell, width)
}

func padRight(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// StructuredRows lays the render blocks out as markdown leaves colored by
// diff type. Every leaf carries the anchor needed to resolve it to a
// new-document line; removed leaves never resolve.
func StructuredRows(res *engine.Result, parser *markdown.Parser) []Row {
	if parser == nil {
		parser = markdown.NewParser(nil)
	}

	var rows []Row
	for _, block := range res.Blocks {
		switch b := block.(type) {
		case sections.MarkdownBlock:
			rows = append(rows, markdownRows(res, parser, b)...)
		case sections.CodeBlock:
			rows = append(rows, codeRows(b)...)
		}
	}

	if len(rows) == 0 {
		return emptyRows()
	}
	return rows
}

func markdownRows(res *engine.Result, parser *markdown.Parser, b sections.MarkdownBlock) []Row {
	tree := parser.Parse(b.Text())
	anchor := b.Anchor()

	rows := make([]Row, 0, len(tree.Leaves))
	for _, leaf := range tree.Leaves {
		row := Row{
			Kind:    RowLine,
			Type:    b.Type,
			Content: lineStyle(b.Type).Render(b.Type.Marker() + " " + leaf.Display),
			Source:  leaf.Content,
		}
		if leaf.HasSourceLine() {
			row.Anchor = &anchor
			row.LocalLine = leaf.SourceLine
			row.Key, _ = res.ResolveAnchor(anchor, leaf.SourceLine)
		}
		rows = append(rows, row)
	}
	return rows
}

func codeRows(b sections.CodeBlock) []Row {
	fence := func(text string) Row {
		return Row{
			Kind:    RowFence,
			Type:    b.FenceType,
			Content: lineStyle(b.FenceType).Render(b.FenceType.Marker() + " " + text),
			Source:  text,
		}
	}

	rows := []Row{fence(strings.TrimSpace(b.Fence + b.Info))}
	for _, cl := range b.Lines {
		row := Row{
			Kind:    RowLine,
			Type:    cl.Type,
			Content: lineStyle(cl.Type).Render(cl.Type.Marker() + "   " + cl.Text),
			Source:  cl.Text,
		}
		if n, ok := sections.ResolveCodeLine(cl); ok {
			row.Key = comments.NewLineKey(n)
		}
		rows = append(rows, row)
	}
	if b.Closed {
		rows = append(rows, fence(b.Fence))
	}
	return rows
}

// Plain returns the rows' content joined by newlines, for non-interactive
// output.
func Plain(rows []Row) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = r.Content
	}
	return strings.Join(lines, "\n")
}
