package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentNames(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"plan.md", "NOTES.MARKDOWN", "todo.txt", "main.go"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "drafts.md"), 0o755))

	assert.ElementsMatch(t, []string{"plan.md", "NOTES.MARKDOWN", "todo.txt"}, documentNames(dir))
}

func TestDocumentNames_MissingDir(t *testing.T) {
	assert.Empty(t, documentNames(filepath.Join(t.TempDir(), "nope")))
}
