package sections

import (
	"encoding/json"
	"regexp"
	"strings"
)

// fenceOpenPattern matches a line that opens a fenced code region.
var fenceOpenPattern = regexp.MustCompile("^(`{3,}|~{3,})")

// BlockKind names the variant of a render block.
type BlockKind string

const (
	BlockMarkdown BlockKind = "markdown"
	BlockCode     BlockKind = "code"
)

// Block is a unit handed to the structured renderer: either a MarkdownBlock
// or a CodeBlock.
type Block interface {
	Kind() BlockKind
}

// MarkdownBlock is a run of prose lines sharing a diff type and section.
type MarkdownBlock struct {
	Type    DiffType `json:"type"`
	Section ID       `json:"section"`
	Offset  int      `json:"offset"` // offset of the first line within the section run
	Lines   []string `json:"lines"`
}

// Kind implements Block.
func (MarkdownBlock) Kind() BlockKind { return BlockMarkdown }

// Text returns the markdown source handed to the renderer for this block.
func (b MarkdownBlock) Text() string {
	return strings.Join(b.Lines, "\n")
}

// Anchor returns the address anchor of the block's first line.
func (b MarkdownBlock) Anchor() Anchor {
	return Anchor{Section: b.Section, Type: b.Type, Offset: b.Offset}
}

// MarshalJSON includes the block kind.
func (b MarkdownBlock) MarshalJSON() ([]byte, error) {
	type alias MarkdownBlock
	return json.Marshal(struct {
		Kind BlockKind `json:"kind"`
		alias
	}{Kind: BlockMarkdown, alias: alias(b)})
}

// CodeLine is one content line of a fenced code region.
type CodeLine struct {
	Text    string   `json:"text"`
	Type    DiffType `json:"type"`
	Section ID       `json:"section"`
	NewLine int      `json:"new_line"` // absolute new-document line (0 when unresolvable)
}

// CodeBlock is a whole fenced code region. Lines may come from different
// sections; the fence lines themselves are not part of Lines.
type CodeBlock struct {
	FenceType    DiffType   `json:"fence_type"`
	FenceSection ID         `json:"fence_section"`
	FenceOffset  int        `json:"fence_offset"` // offset of the first content line after the opening fence
	Fence        string     `json:"fence"`        // the opening fence token, e.g. "```"
	Info         string     `json:"info,omitempty"`
	Lines        []CodeLine `json:"lines"`
	Closed       bool       `json:"closed"` // false when the input ended inside the fence
}

// Kind implements Block.
func (CodeBlock) Kind() BlockKind { return BlockCode }

// Text returns the code content without fences.
func (b CodeBlock) Text() string {
	lines := make([]string, len(b.Lines))
	for i, l := range b.Lines {
		lines[i] = l.Text
	}
	return strings.Join(lines, "\n")
}

// MarshalJSON includes the block kind.
func (b CodeBlock) MarshalJSON() ([]byte, error) {
	type alias CodeBlock
	return json.Marshal(struct {
		Kind BlockKind `json:"kind"`
		alias
	}{Kind: BlockCode, alias: alias(b)})
}

// BuildBlocks groups flat lines into render blocks in a single pass. A fenced
// code region always becomes exactly one CodeBlock, even when it straddles
// several sections. A fence left open at the end of input is flushed as an
// implicit code block.
func BuildBlocks(set *Set, lines []FlatLine) []Block {
	var (
		blocks []Block
		md     *MarkdownBlock
		code   *CodeBlock
		inCode bool
		fence  string
	)

	flush := func() {
		if md != nil {
			blocks = append(blocks, *md)
			md = nil
		}
		if code != nil {
			blocks = append(blocks, *code)
			code = nil
		}
	}

	for _, line := range lines {
		if !inCode {
			if tok := fenceOpenPattern.FindString(line.Text); tok != "" {
				flush()
				inCode = true
				fence = tok
				code = &CodeBlock{
					FenceType:    line.Type,
					FenceSection: line.Section,
					FenceOffset:  line.Offset + 1,
					Fence:        tok,
					Info:         strings.TrimSpace(line.Text[len(tok):]),
				}
				continue
			}

			if md != nil && md.Type == line.Type && md.Section == line.Section {
				md.Lines = append(md.Lines, line.Text)
				continue
			}

			flush()
			md = &MarkdownBlock{
				Type:    line.Type,
				Section: line.Section,
				Offset:  line.Offset,
				Lines:   []string{line.Text},
			}
			continue
		}

		if closesFence(line.Text, fence) {
			code.Closed = true
			inCode = false
			fence = ""
			flush()
			continue
		}

		cl := CodeLine{Text: line.Text, Type: line.Type, Section: line.Section}
		if line.Type != Removed {
			if sec, ok := set.Lookup(line.Section); ok && sec.HasNewStart() {
				cl.NewLine = sec.NewStart + line.Offset
			}
		}
		code.Lines = append(code.Lines, cl)
	}

	flush()
	return blocks
}

// closesFence reports whether line is a closing fence for the opening token:
// the same fence character repeated at least as many times, optionally
// followed by whitespace.
func closesFence(line, open string) bool {
	if open == "" {
		return false
	}
	ch := open[0]
	trimmed := strings.TrimRight(line, " \t")
	if len(trimmed) < len(open) {
		return false
	}
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] != ch {
			return false
		}
	}
	return true
}
