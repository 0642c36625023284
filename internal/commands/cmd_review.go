package commands

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/plandiff/internal/core/markdown"
	"github.com/hay-kot/plandiff/internal/engine"
	"github.com/hay-kot/plandiff/internal/source"
	"github.com/hay-kot/plandiff/internal/tui"
	"github.com/hay-kot/plandiff/internal/tui/diff"
	"github.com/hay-kot/plandiff/internal/watch"
	"github.com/hay-kot/plandiff/pkg/profiler"
)

type ReviewCmd struct {
	flags   *Flags
	inputs  docInputs
	view    string
	context int
	watch   bool
	saveDir string

	profilerPort int
}

// NewReviewCmd creates a new review command.
func NewReviewCmd(flags *Flags) *ReviewCmd {
	return &ReviewCmd{flags: flags}
}

// Register adds the review command to the application.
func (cmd *ReviewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "review",
		Usage:     "Review a document change interactively and comment on lines",
		UsageText: "plandiff review [options] OLD NEW\nplandiff review [options] --rev REV FILE",
		Description: `Opens a TUI showing the comparison in unified, split or structured
markdown layout. Comments attach to lines of the new document and are
shared by all layouts.

Finishing the review with q prints the prompt to stderr and copies it
(review.copy_command, or the system clipboard). If copying fails the
prompt is saved to a file instead. ctrl+c aborts without output.

Examples:
  plandiff review plan-v1.md plan-v2.md
  plandiff review --watch --view structured --rev main docs/plan.md`,
		Flags: append(cmd.inputs.flags(),
			&cli.StringFlag{
				Name:        "view",
				Usage:       "initial layout (unified, split, structured)",
				Destination: &cmd.view,
			},
			&cli.IntFlag{
				Name:        "context",
				Aliases:     []string{"C"},
				Usage:       "unchanged lines shown around each change",
				Destination: &cmd.context,
			},
			&cli.BoolFlag{
				Name:        "watch",
				Aliases:     []string{"w"},
				Usage:       "reload when the documents change on disk (clears comments)",
				Destination: &cmd.watch,
			},
			&cli.StringFlag{
				Name:        "save-dir",
				Usage:       "directory for the feedback file written when copying fails (defaults to the current directory)",
				Destination: &cmd.saveDir,
			},
			&cli.IntFlag{
				Name:        "profiler-port",
				Usage:       "enable pprof HTTP endpoint on localhost at the given port (e.g., 6060)",
				Sources:     cli.EnvVars("PLANDIFF_PROFILER_PORT"),
				Hidden:      true,
				Destination: &cmd.profilerPort,
			},
		),
		ShellComplete: DocumentCompleter,
		Action:        cmd.run,
	})

	return app
}

func (cmd *ReviewCmd) run(ctx context.Context, c *cli.Command) error {
	args := c.Args().Slice()
	if slices.Contains(args, source.Stdin) {
		return errors.New("review needs the terminal for input; documents cannot be read from stdin")
	}

	mode, err := cmd.mode()
	if err != nil {
		return err
	}

	src, err := cmd.inputs.source(cmd.flags, args)
	if err != nil {
		return err
	}

	cfg := cmd.flags.Config
	eng := engine.New(engine.Options{
		ContextLines: contextLines(c, cmd.context, cmd.flags),
		CommentMode:  true,
	})

	opts := tui.Options{
		Source:       src,
		Engine:       eng,
		Mode:         mode,
		Parser:       markdown.NewParser(nil),
		PromptHeader: cfg.Review.PromptHeader,
		Copier:       tui.NewCopier(cfg.Review.CopyCommand),
	}

	if cmd.watch {
		w, err := watch.New(cfg.Watch.Debounce, src.Paths()...)
		if err != nil {
			return fmt.Errorf("watch documents: %w", err)
		}
		defer func() {
			if err := w.Close(); err != nil {
				log.Warn().Err(err).Msg("close watcher")
			}
		}()
		opts.Events = w.Events()
	}

	if cmd.profilerPort > 0 {
		profServer := profiler.New(cmd.profilerPort)
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("shutdown profiler server")
			}
		}()
		log.Info().
			Str("url", fmt.Sprintf("http://%s/debug/pprof/", profServer.Addr())).
			Msg("profiler endpoint available")
	}

	p := tea.NewProgram(tui.New(ctx, opts), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("run review: %w", err)
	}

	m, ok := final.(tui.Model)
	if !ok || !m.Finished() {
		return nil
	}

	return tui.Deliver(ctx, c.Root().ErrWriter, m.Prompt(), opts.Copier, cmd.saveDir)
}

func (cmd *ReviewCmd) mode() (diff.Mode, error) {
	if cmd.view == "" {
		return diff.Mode(cmd.flags.Config.Diff.ViewMode), nil
	}
	mode := diff.Mode(cmd.view)
	if !slices.Contains(diff.Modes, mode) {
		return "", fmt.Errorf("unknown view %q (want unified, split or structured)", cmd.view)
	}
	return mode, nil
}
