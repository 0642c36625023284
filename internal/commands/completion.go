package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"
)

// documentExts are the extensions suggested for positional arguments.
var documentExts = []string{".md", ".markdown", ".txt"}

// DocumentCompleter is a ShellCompleteFunc that suggests documents in the
// current directory as positional completions.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func DocumentCompleter(ctx context.Context, cmd *cli.Command) {
	if args := cmd.Args(); args.Present() {
		last := args.Slice()[args.Len()-1]
		if len(last) > 0 && last[0] == '-' {
			cli.DefaultCompleteWithFlags(ctx, cmd)
			return
		}
	}

	for _, name := range documentNames(".") {
		_, _ = fmt.Fprintln(cmd.Root().Writer, name)
	}
}

func documentNames(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if slices.Contains(documentExts, strings.ToLower(filepath.Ext(e.Name()))) {
			names = append(names, e.Name())
		}
	}
	return names
}
