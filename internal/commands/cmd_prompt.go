package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/plandiff/internal/core/comments"
	"github.com/hay-kot/plandiff/internal/engine"
	"github.com/hay-kot/plandiff/internal/printer"
	"github.com/hay-kot/plandiff/internal/source"
	"github.com/hay-kot/plandiff/internal/tui"
	"github.com/hay-kot/plandiff/pkg/iojson"
)

// CommentInput is one entry of a comments file.
type CommentInput struct {
	Line    int    `yaml:"line" json:"line"`
	Side    string `yaml:"side" json:"side"` // "new" (default) or "old"
	Comment string `yaml:"comment" json:"comment"`
}

// Key returns the comment key the entry addresses.
func (in CommentInput) Key() (comments.Key, error) {
	switch in.Side {
	case "", string(comments.SideNew):
		return comments.NewLineKey(in.Line), nil
	case string(comments.SideOld):
		return comments.OldLineKey(in.Line), nil
	default:
		return "", fmt.Errorf("unknown side %q (want new or old)", in.Side)
	}
}

type PromptCmd struct {
	flags    *Flags
	inputs   docInputs
	comments iojson.FileReader[[]CommentInput]
	header   string
	copy     bool
	format   string
}

// NewPromptCmd creates a new prompt command.
func NewPromptCmd(flags *Flags) *PromptCmd {
	return &PromptCmd{
		flags: flags,
		comments: iojson.FileReader[[]CommentInput]{
			Name:  "comments",
			Usage: "YAML or JSON list of {line, side, comment} (reads from stdin if not provided)",
		},
	}
}

// Register adds the prompt command to the application.
func (cmd *PromptCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "prompt",
		Usage:     "Turn line comments on a document pair into a review prompt",
		UsageText: "plandiff prompt [options] OLD NEW\nplandiff prompt [options] --rev REV FILE",
		Description: `Attaches the comments to the compared documents and prints the
serialized prompt, ordered by position in the document.

Lines are 1-indexed lines of the new document. Use side: old to comment
on a line that only exists in the old document.

Example comments file:
  - line: 3
    comment: Why this change?
  - line: 4
    side: old
    comment: Keep this step.`,
		Flags: append(cmd.inputs.flags(),
			cmd.comments.Flag(),
			&cli.StringFlag{
				Name:        "header",
				Usage:       "prompt header template with .Old, .New and .Count (defaults to review.prompt_header)",
				Destination: &cmd.header,
			},
			&cli.BoolFlag{
				Name:        "copy",
				Usage:       "also copy the prompt to the clipboard",
				Destination: &cmd.copy,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
		),
		ShellComplete: DocumentCompleter,
		Action:        cmd.run,
	})

	return app
}

type promptOutput struct {
	PairID   string             `json:"pair_id"`
	Comments []comments.Comment `json:"comments"`
	Prompt   string             `json:"prompt"`
}

func (cmd *PromptCmd) run(ctx context.Context, c *cli.Command) error {
	args := c.Args().Slice()
	if !cmd.comments.IsSet() && slices.Contains(args, source.Stdin) {
		return errors.New("--comments is required when a document is read from stdin")
	}

	eng, res, docs, err := cmd.inputs.compare(ctx, cmd.flags, c, engine.Options{ContextLines: -1, CommentMode: true})
	if err != nil {
		return err
	}

	inputs, err := cmd.comments.Read()
	if err != nil {
		return fmt.Errorf("read comments: %w", err)
	}

	if err := applyComments(ctx, eng, inputs); err != nil {
		return err
	}

	header := cmd.header
	if header == "" && cmd.flags.Config != nil {
		header = cmd.flags.Config.Review.PromptHeader
	}
	header, err = comments.RenderHeader(header, comments.HeaderData{
		Old:   docs.OldName,
		New:   docs.NewName,
		Count: eng.CommentCount(),
	})
	if err != nil {
		return err
	}
	prompt := eng.Prompt(header)

	w := c.Root().Writer
	if cmd.format == "json" {
		if err := writeJSON(c, promptOutput{
			PairID:   res.PairID,
			Comments: eng.Comments(),
			Prompt:   prompt,
		}); err != nil {
			return err
		}
	} else if _, err := io.WriteString(w, prompt); err != nil {
		return err
	}

	if cmd.copy && prompt != "" {
		copyCommand := ""
		if cmd.flags.Config != nil {
			copyCommand = cmd.flags.Config.Review.CopyCommand
		}
		if err := tui.NewCopier(copyCommand)(ctx, prompt); err != nil {
			return fmt.Errorf("copy prompt: %w", err)
		}
		printer.Ctx(ctx).Successf("Copied %d comment(s) to the clipboard", eng.CommentCount())
	}

	return nil
}

// applyComments adds every input to eng. A later entry on the same line
// replaces an earlier one.
func applyComments(ctx context.Context, eng *engine.Engine, inputs []CommentInput) error {
	for i, in := range inputs {
		key, err := in.Key()
		if err == nil {
			_, err = eng.AddComment(ctx, key, in.Comment)
		}
		if err != nil {
			return fmt.Errorf("comment %d (line %d): %w", i+1, in.Line, err)
		}
	}
	return nil
}
