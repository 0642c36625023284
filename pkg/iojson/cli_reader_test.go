package iojson

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Line    int    `yaml:"line"`
	Comment string `yaml:"comment"`
}

func TestFileReader_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- line: 3\n  comment: hi\n"), 0o644))

	fr := &FileReader[[]item]{Name: "comments", fileFlagValue: path}
	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, []item{{Line: 3, Comment: "hi"}}, got)
	assert.Equal(t, "comments", fr.Flag().Name)
}

func TestFileReader_JSONFromStdin(t *testing.T) {
	fr := &FileReader[[]item]{stdin: strings.NewReader(`[{"line": 1, "comment": "json works"}]`)}
	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, []item{{Line: 1, Comment: "json works"}}, got)
	assert.Equal(t, "file", fr.Flag().Name)
}

func TestFileReader_Errors(t *testing.T) {
	fr := &FileReader[[]item]{fileFlagValue: filepath.Join(t.TempDir(), "missing.yaml")}
	_, err := fr.Read()
	require.ErrorIs(t, err, os.ErrNotExist)

	fr = &FileReader[[]item]{stdin: strings.NewReader("")}
	_, err = fr.Read()
	require.ErrorContains(t, err, "empty document")

	fr = &FileReader[[]item]{stdin: strings.NewReader("line: [")}
	_, err = fr.Read()
	require.ErrorContains(t, err, "decode input")
}
