// Package source loads the two documents of a comparison from files or from
// a git revision.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/hay-kot/plandiff/internal/core/git"
)

// Stdin is the path that names standard input.
const Stdin = "-"

// ErrStdinTwice is returned when both documents are read from standard input.
var ErrStdinTwice = errors.New("only one document may be read from stdin")

// Documents is one loaded before/after pair.
type Documents struct {
	OldName string
	NewName string
	Old     string
	New     string
}

// Source produces a document pair. Load may be called repeatedly; each call
// reflects the current state of the underlying files.
type Source interface {
	Load(ctx context.Context) (Documents, error)
	// Paths lists the files on disk whose changes should trigger a reload.
	Paths() []string
	// Title is a short human-readable description of the comparison.
	Title() string
}

// Files compares two files on disk. Either path may be Stdin.
type Files struct {
	OldPath string
	NewPath string

	// StdinReader replaces os.Stdin when set.
	StdinReader io.Reader

	once  sync.Once
	stdin string
	err   error
}

// NewFiles creates a Files source.
func NewFiles(oldPath, newPath string) (*Files, error) {
	if oldPath == Stdin && newPath == Stdin {
		return nil, ErrStdinTwice
	}
	return &Files{OldPath: oldPath, NewPath: newPath}, nil
}

// Load reads both files. Standard input is read once and reused on later
// loads.
func (f *Files) Load(_ context.Context) (Documents, error) {
	oldText, err := f.read(f.OldPath)
	if err != nil {
		return Documents{}, err
	}
	newText, err := f.read(f.NewPath)
	if err != nil {
		return Documents{}, err
	}

	return Documents{
		OldName: f.OldPath,
		NewName: f.NewPath,
		Old:     oldText,
		New:     newText,
	}, nil
}

func (f *Files) read(path string) (string, error) {
	if path == Stdin {
		f.once.Do(func() {
			r := f.StdinReader
			if r == nil {
				r = os.Stdin
			}
			var data []byte
			data, f.err = io.ReadAll(r)
			f.stdin = string(data)
		})
		if f.err != nil {
			return "", fmt.Errorf("read stdin: %w", f.err)
		}
		return f.stdin, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// Paths implements Source.
func (f *Files) Paths() []string {
	var paths []string
	for _, p := range []string{f.OldPath, f.NewPath} {
		if p != Stdin {
			paths = append(paths, p)
		}
	}
	return paths
}

// Title implements Source.
func (f *Files) Title() string {
	return f.OldPath + " → " + f.NewPath
}

// Revision compares a file as of a git revision against its working copy.
type Revision struct {
	Git  git.Git
	Dir  string // directory git commands resolve relative paths from
	Rev  string
	Path string
}

// Load implements Source.
func (r *Revision) Load(ctx context.Context) (Documents, error) {
	oldText, err := r.Git.ShowFile(ctx, r.Dir, r.Rev, r.Path)
	if err != nil {
		return Documents{}, fmt.Errorf("load %s at %s: %w", r.Path, r.Rev, err)
	}

	newText, err := os.ReadFile(r.abs())
	if err != nil {
		return Documents{}, fmt.Errorf("read %s: %w", r.Path, err)
	}

	return Documents{
		OldName: r.Rev + ":" + r.Path,
		NewName: r.Path,
		Old:     oldText,
		New:     string(newText),
	}, nil
}

func (r *Revision) abs() string {
	if filepath.IsAbs(r.Path) || r.Dir == "" {
		return r.Path
	}
	return filepath.Join(r.Dir, r.Path)
}

// Paths implements Source. Only the working copy can change underneath a
// review.
func (r *Revision) Paths() []string {
	return []string{r.abs()}
}

// Title implements Source.
func (r *Revision) Title() string {
	return r.Path + " @ " + r.Rev
}
