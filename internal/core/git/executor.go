package git

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hay-kot/plandiff/pkg/executil"
)

// Executor implements Git using the git command-line tool.
type Executor struct {
	gitPath string
	exec    executil.Executor
}

// NewExecutor creates a new git executor with the specified git binary path.
func NewExecutor(gitPath string, exec executil.Executor) *Executor {
	return &Executor{gitPath: gitPath, exec: exec}
}

func (e *Executor) RepoRoot(ctx context.Context, dir string) (string, error) {
	out, err := e.exec.RunDir(ctx, dir, e.gitPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", classify(err))
	}
	return strings.TrimSpace(string(out)), nil
}

func (e *Executor) ShowFile(ctx context.Context, dir, rev, path string) (string, error) {
	if rev == "" {
		return "", fmt.Errorf("show file: revision is required")
	}

	root, err := e.RepoRoot(ctx, dir)
	if err != nil {
		return "", err
	}

	rel, err := relativeTo(root, dir, path)
	if err != nil {
		return "", err
	}

	out, err := e.exec.RunDir(ctx, root, e.gitPath, "show", rev+":"+rel)
	if err != nil {
		return "", fmt.Errorf("git show %s:%s: %w", rev, rel, classify(err))
	}
	return string(out), nil
}

// relativeTo returns path relative to the repository root in the slash form
// git expects in "rev:path".
func relativeTo(root, dir, path string) (string, error) {
	// git reports the root with symlinks resolved.
	if real, err := filepath.EvalSymlinks(dir); err == nil {
		if filepath.IsAbs(path) {
			if realPath, err := filepath.EvalSymlinks(filepath.Dir(path)); err == nil {
				path = filepath.Join(realPath, filepath.Base(path))
			}
		}
		dir = real
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside %s: %w", path, root, ErrNotInRepo)
	}
	return filepath.ToSlash(rel), nil
}

// classify maps git's stderr messages onto sentinel errors.
func classify(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not a git repository"):
		return fmt.Errorf("%w: %w", ErrNotInRepo, err)
	case strings.Contains(msg, "invalid object name"),
		strings.Contains(msg, "does not exist in"),
		strings.Contains(msg, "exists on disk, but not in"),
		strings.Contains(msg, "unknown revision"),
		strings.Contains(msg, "bad revision"):
		return fmt.Errorf("%w: %w", ErrUnknownRevision, err)
	}
	return err
}
