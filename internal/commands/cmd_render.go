package commands

import (
	"context"
	"fmt"
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/plandiff/internal/core/linediff"
	"github.com/hay-kot/plandiff/internal/core/markdown"
	"github.com/hay-kot/plandiff/internal/core/sections"
	"github.com/hay-kot/plandiff/internal/core/styles"
	"github.com/hay-kot/plandiff/internal/engine"
	"github.com/hay-kot/plandiff/internal/tui/diff"
)

type RenderCmd struct {
	flags  *Flags
	inputs docInputs
	format string
	width  int
}

// NewRenderCmd creates a new render command.
func NewRenderCmd(flags *Flags) *RenderCmd {
	return &RenderCmd{flags: flags}
}

// Register adds the render command to the application.
func (cmd *RenderCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "render",
		Usage:     "Render the new document as markdown with changes marked",
		UsageText: "plandiff render [options] OLD NEW\nplandiff render [options] --rev REV FILE",
		Description: `Renders the whole comparison as structured markdown. Added blocks are
marked with "+" in the gutter and removed blocks with "-".

Formats:
  text   rendered through glamour with the configured theme
  plain  one line per markdown leaf, as shown in the review TUI
  json   render blocks with every leaf and the new-document line it resolves to`,
		Flags: append(cmd.inputs.flags(),
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, plain, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.IntFlag{
				Name:        "width",
				Usage:       "word wrap width (defaults to render.word_wrap or the terminal width)",
				Destination: &cmd.width,
			},
		),
		ShellComplete: DocumentCompleter,
		Action:        cmd.run,
	})

	return app
}

// renderedLeaf is a leaf of a markdown block with its resolved address.
type renderedLeaf struct {
	markdown.TaggedNode
	Line int `json:"line"` // new-document line, 0 when the leaf has no address
}

// renderedBlock pairs a block with its leaves in JSON output.
type renderedBlock struct {
	Block  sections.Block `json:"block"`
	Leaves []renderedLeaf `json:"leaves,omitempty"`
}

func (cmd *RenderCmd) run(ctx context.Context, c *cli.Command) error {
	_, res, docs, err := cmd.inputs.compare(ctx, cmd.flags, c, engine.Options{ContextLines: -1})
	if err != nil {
		return err
	}

	parser := markdown.NewParser(nil)
	w := c.Root().Writer

	switch cmd.format {
	case "json":
		return writeJSON(c, renderBlocks(res, parser))
	case "plain":
		_, err := lipgloss.Fprintln(w, header(docs, res.Stats)+"\n"+diff.Plain(diff.StructuredRows(res, parser)))
		return err
	case "text", "":
		out, err := cmd.renderText(res, outputWidth(w))
		if err != nil {
			return err
		}
		_, err = lipgloss.Fprintln(w, header(docs, res.Stats)+"\n\n"+out)
		return err
	default:
		return fmt.Errorf("unknown format %q (want text, plain or json)", cmd.format)
	}
}

func renderBlocks(res *engine.Result, parser *markdown.Parser) []renderedBlock {
	out := make([]renderedBlock, 0, len(res.Blocks))
	for _, block := range res.Blocks {
		rb := renderedBlock{Block: block}
		if mb, ok := block.(sections.MarkdownBlock); ok {
			for _, leaf := range parser.Parse(mb.Text()).Leaves {
				rl := renderedLeaf{TaggedNode: leaf}
				if line, ok := sections.Resolve(res.Sections, mb.Anchor(), leaf.SourceLine); ok {
					rl.Line = line
				}
				rb.Leaves = append(rb.Leaves, rl)
			}
		}
		out = append(out, rb)
	}
	return out
}

func (cmd *RenderCmd) renderText(res *engine.Result, termWidth int) (string, error) {
	width := cmd.width
	if width <= 0 {
		width = termWidth
		if cmd.flags.Config != nil && cmd.flags.Config.Render.WordWrap > 0 {
			width = min(width, cmd.flags.Config.Render.WordWrap)
		}
	}

	// Two columns go to the gutter.
	renderer, err := markdown.NewRenderer(width - 2)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}

	var parts []string
	for _, block := range res.Blocks {
		switch b := block.(type) {
		case sections.MarkdownBlock:
			if strings.TrimSpace(b.Text()) == "" {
				continue
			}
			out, err := renderer.Render(b.Text())
			if err != nil {
				return "", fmt.Errorf("render block %s: %w", b.Section, err)
			}
			parts = append(parts, withGutter(out, b.Type))
		case sections.CodeBlock:
			parts = append(parts, renderCode(b))
		}
	}
	return strings.Join(parts, "\n"), nil
}

// withGutter prefixes every line of s with the diff marker of t.
func withGutter(s string, t linediff.LineType) string {
	marker := gutterMarker(t)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = marker + l
	}
	return strings.Join(lines, "\n")
}

func gutterMarker(t linediff.LineType) string {
	switch t {
	case linediff.LineAdded:
		return styles.DiffAddedStyle.Render("+") + " "
	case linediff.LineRemoved:
		return styles.DiffRemovedStyle.Render("-") + " "
	default:
		return "  "
	}
}

func renderCode(b sections.CodeBlock) string {
	lines := []string{gutterMarker(b.FenceType) + styles.DividerStyle.Render(b.Fence+b.Info)}
	for _, l := range b.Lines {
		style := styles.DiffContextStyle
		switch l.Type {
		case linediff.LineAdded:
			style = styles.DiffAddedStyle
		case linediff.LineRemoved:
			style = styles.DiffRemovedStyle
		}
		lines = append(lines, gutterMarker(l.Type)+style.Render(l.Text))
	}
	if b.Closed {
		lines = append(lines, gutterMarker(b.FenceType)+styles.DividerStyle.Render(b.Fence))
	}
	return strings.Join(lines, "\n")
}
