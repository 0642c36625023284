package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/plandiff/internal/core/git"
	"github.com/hay-kot/plandiff/internal/engine"
	"github.com/hay-kot/plandiff/internal/printer"
	"github.com/hay-kot/plandiff/internal/source"
	"github.com/hay-kot/plandiff/pkg/executil"
	"github.com/hay-kot/plandiff/pkg/iojson"
)

// defaultWidth is used when the output is not a terminal.
const defaultWidth = 100

var errUsage = errors.New("usage: OLD NEW, or --rev REV FILE")

// docInputs holds the flags shared by every command that compares two
// documents.
type docInputs struct {
	rev string
}

func (in *docInputs) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "rev",
			Aliases:     []string{"r"},
			Usage:       "compare FILE as of git revision REV against the working copy",
			Destination: &in.rev,
		},
	}
}

// source builds the document source from the positional arguments.
func (in *docInputs) source(flags *Flags, args []string) (source.Source, error) {
	if in.rev != "" {
		if len(args) != 1 {
			return nil, fmt.Errorf("--rev takes exactly one FILE: %w", errUsage)
		}

		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get current directory: %w", err)
		}

		gitPath := "git"
		if flags.Config != nil && flags.Config.GitPath != "" {
			gitPath = flags.Config.GitPath
		}

		return &source.Revision{
			Git:  git.NewExecutor(gitPath, &executil.RealExecutor{}),
			Dir:  wd,
			Rev:  in.rev,
			Path: args[0],
		}, nil
	}

	if len(args) != 2 {
		return nil, errUsage
	}
	return source.NewFiles(args[0], args[1])
}

// compare loads the documents and runs them through a new engine.
func (in *docInputs) compare(ctx context.Context, flags *Flags, c *cli.Command, opts engine.Options) (*engine.Engine, *engine.Result, source.Documents, error) {
	src, err := in.source(flags, c.Args().Slice())
	if err != nil {
		return nil, nil, source.Documents{}, err
	}

	docs, err := src.Load(ctx)
	if err != nil {
		return nil, nil, source.Documents{}, err
	}

	eng := engine.New(opts)
	res, _ := eng.Compare(ctx, docs.Old, docs.New)
	return eng, res, docs, nil
}

// contextLines returns the flag value when set, otherwise the configured one.
func contextLines(c *cli.Command, flag int, flags *Flags) int {
	if c.IsSet("context") {
		return flag
	}
	if flags.Config != nil {
		return flags.Config.ContextLines()
	}
	return -1
}

// terminalFd returns the file descriptor of w when it is a terminal.
func terminalFd(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	return int(f.Fd()), true
}

// outputWidth returns the terminal width of w, or defaultWidth when w is not
// a terminal.
func outputWidth(w io.Writer) int {
	if fd, ok := terminalFd(w); ok {
		if width, _, err := term.GetSize(fd); err == nil && width > 0 {
			return width
		}
	}
	return defaultWidth
}

// writeJSON writes v to stdout as indented JSON, highlighted when stdout is a
// terminal.
func writeJSON(c *cli.Command, v any) error {
	w := c.Root().Writer
	if _, ok := terminalFd(w); !ok {
		return iojson.WriteWith(w, c.Root().ErrWriter, v)
	}

	bits, err := iojson.Marshal(v)
	if err != nil {
		return err
	}
	_, err = lipgloss.Fprintln(w, printer.ColorizeJSON(bits))
	return err
}
