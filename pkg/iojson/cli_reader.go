package iojson

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// FileReader reads a YAML (or JSON) document named by a command line flag,
// falling back to stdin when the flag is unset.
type FileReader[T any] struct {
	// Name is the flag name, "file" when empty.
	Name  string
	Usage string

	fileFlagValue string
	stdin         io.Reader
}

func (fr *FileReader[T]) Flag() *cli.StringFlag {
	name := fr.Name
	if name == "" {
		name = "file"
	}
	usage := fr.Usage
	if usage == "" {
		usage = "path to YAML or JSON file (reads from stdin if not provided)"
	}

	return &cli.StringFlag{
		Name:        name,
		Aliases:     []string{name[:1]},
		Usage:       usage,
		Destination: &fr.fileFlagValue,
	}
}

// Read decodes the input. JSON is accepted since it is a subset of YAML.
func (fr *FileReader[T]) Read() (T, error) {
	var reader io.Reader
	var input T

	switch {
	case fr.fileFlagValue != "" && fr.fileFlagValue != "-":
		f, err := os.Open(fr.fileFlagValue)
		if err != nil {
			return input, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		reader = f
	case fr.stdin != nil:
		reader = fr.stdin
	default:
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return input, fmt.Errorf("no input provided (stdin is a terminal); use --%s or pipe input", fr.Flag().Name)
		}
		reader = os.Stdin
	}

	if err := yaml.NewDecoder(reader).Decode(&input); err != nil {
		if err == io.EOF {
			return input, fmt.Errorf("decode input: empty document")
		}
		return input, fmt.Errorf("decode input: %w", err)
	}

	return input, nil
}

// IsSet reports whether the flag named a file.
func (fr *FileReader[T]) IsSet() bool {
	return fr.fileFlagValue != "" && fr.fileFlagValue != "-"
}
