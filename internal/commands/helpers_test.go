package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/plandiff/internal/core/config"
)

const (
	planV1 = "# Plan\n\nStep one\nStep two\nStep three\n"
	planV2 = "# Plan\n\nStep one\nStep 2\nStep three\nStep four\n"
)

// registrar is satisfied by every XxxCmd.
type registrar interface {
	Register(app *cli.Command) *cli.Command
}

func testFlags(t *testing.T) *Flags {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.GitPath = "sh"
	return &Flags{Config: &cfg}
}

func writeDocs(t *testing.T, oldText, newText string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "v1.md")
	newPath := filepath.Join(dir, "v2.md")
	require.NoError(t, os.WriteFile(oldPath, []byte(oldText), 0o644))
	require.NoError(t, os.WriteFile(newPath, []byte(newText), 0o644))
	return oldPath, newPath
}

// runCmd runs a single registered command and returns its plain stdout.
func runCmd(t *testing.T, cmd registrar, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer

	app := &cli.Command{
		Name:      "plandiff",
		Writer:    &out,
		ErrWriter: &errOut,
	}
	cmd.Register(app)

	err := app.Run(context.Background(), append([]string{"plandiff"}, args...))
	return ansi.Strip(out.String()), err
}
