package commands

import (
	"context"
	"fmt"
	"io"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/plandiff/internal/core/linediff"
	"github.com/hay-kot/plandiff/internal/core/styles"
	"github.com/hay-kot/plandiff/internal/engine"
	"github.com/hay-kot/plandiff/internal/source"
	"github.com/hay-kot/plandiff/internal/tui/diff"
)

type DiffCmd struct {
	flags   *Flags
	inputs  docInputs
	view    string
	context int
	format  string
}

// NewDiffCmd creates a new diff command.
func NewDiffCmd(flags *Flags) *DiffCmd {
	return &DiffCmd{flags: flags}
}

// Register adds the diff command to the application.
func (cmd *DiffCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "diff",
		Usage:     "Show the line diff of two document versions",
		UsageText: "plandiff diff [options] OLD NEW\nplandiff diff [options] --rev REV FILE",
		Description: `Prints the raw hunks of the comparison.

Either document may be "-" to read it from stdin.

Examples:
  plandiff diff plan-v1.md plan-v2.md
  plandiff diff --view split --context 1 plan-v1.md plan-v2.md
  plandiff diff --rev HEAD~1 docs/plan.md
  plandiff diff --format patch plan-v1.md plan-v2.md > plan.patch`,
		Flags: append(cmd.inputs.flags(),
			&cli.StringFlag{
				Name:        "view",
				Usage:       "hunk layout (unified, split); defaults to diff.view_mode",
				Destination: &cmd.view,
			},
			&cli.IntFlag{
				Name:        "context",
				Aliases:     []string{"C"},
				Usage:       "unchanged lines shown around each change",
				Destination: &cmd.context,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, patch, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
		),
		ShellComplete: DocumentCompleter,
		Action:        cmd.run,
	})

	return app
}

// diffOutput is the JSON shape of the diff command.
type diffOutput struct {
	Old          string          `json:"old"`
	New          string          `json:"new"`
	PairID       string          `json:"pair_id"`
	ContextLines int             `json:"context_lines"`
	Stats        linediff.Stats  `json:"stats"`
	Hunks        []linediff.Hunk `json:"hunks"`
}

func (cmd *DiffCmd) run(ctx context.Context, c *cli.Command) error {
	view, err := cmd.viewMode()
	if err != nil {
		return err
	}

	_, res, docs, err := cmd.inputs.compare(ctx, cmd.flags, c, engine.Options{
		ContextLines: contextLines(c, cmd.context, cmd.flags),
	})
	if err != nil {
		return err
	}

	log.Debug().
		Str("pair_id", res.PairID).
		Int("hunks", len(res.Hunks)).
		Msg("diff computed")

	w := c.Root().Writer
	switch cmd.format {
	case "json":
		return writeJSON(c, diffOutput{
			Old:          docs.OldName,
			New:          docs.NewName,
			PairID:       res.PairID,
			ContextLines: res.ContextLines,
			Stats:        res.Stats,
			Hunks:        res.Hunks,
		})
	case "patch":
		_, err := io.WriteString(w, linediff.Patch(docs.OldName, docs.NewName, docs.Old, docs.New))
		return err
	case "text", "":
		var rows []diff.Row
		if view == linediff.ViewSplit {
			rows = diff.SplitRows(res, outputWidth(w))
		} else {
			rows = diff.UnifiedRows(res)
		}
		_, err := lipgloss.Fprintln(w, header(docs, res.Stats)+"\n"+diff.Plain(rows))
		return err
	default:
		return fmt.Errorf("unknown format %q (want text, patch or json)", cmd.format)
	}
}

func (cmd *DiffCmd) viewMode() (linediff.ViewMode, error) {
	view := linediff.ViewMode(cmd.view)
	if view == "" {
		if cmd.flags.Config != nil {
			return cmd.flags.Config.Diff.ViewMode, nil
		}
		return linediff.ViewUnified, nil
	}
	if !view.IsValid() {
		return "", fmt.Errorf("unknown view %q (want unified or split)", cmd.view)
	}
	return view, nil
}

// header is the first line of text output: the compared names and counts.
func header(docs source.Documents, stats linediff.Stats) string {
	return styles.HeaderStyle.Render(docs.OldName+" → "+docs.NewName) + " " +
		styles.StatsStyle.Render(fmt.Sprintf("(-%d, +%d)", stats.Removed, stats.Added))
}
