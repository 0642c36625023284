package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/plandiff/internal/commands"
	"github.com/hay-kot/plandiff/internal/core/config"
	"github.com/hay-kot/plandiff/internal/core/logging"
	"github.com/hay-kot/plandiff/internal/core/styles"
	"github.com/hay-kot/plandiff/internal/printer"
	"github.com/hay-kot/plandiff/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var logCloser func()

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "plandiff",
		Usage:     "Compare two versions of a markdown document and turn line comments into a prompt",
		UsageText: "plandiff [global options] command [command options]",
		Description: `plandiff shows what changed between two versions of a plan or any other
markdown document, as raw hunks or as rendered markdown with the changes
marked, and lets you comment on lines of the new version.

Comments are collected into a single prompt you can hand back to whoever
wrote the plan. Run 'plandiff review OLD NEW' to start.`,
		Version:               build(),
		EnableShellCompletion: true,
		Flags:                 flags.Global(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file so the review screen stays clean.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = commands.DefaultLogFile()
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Validation reports unknown themes; fall back to the default here.
			if !styles.SetThemeByName(cfg.Render.Theme) {
				log.Warn().Str("theme", cfg.Render.Theme).Msg("unknown theme, using default")
			}

			log.Debug().
				Str("version", version).
				Str("config", flags.ConfigPath).
				Msg("plandiff starting")

			return printer.NewContext(ctx, printer.New(c.Root().ErrWriter)), nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewDiffCmd(flags).Register(app)
	app = commands.NewRenderCmd(flags).Register(app)
	app = commands.NewPromptCmd(flags).Register(app)
	app = commands.NewReviewCmd(flags).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
