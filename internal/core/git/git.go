// Package git reads document revisions from a git repository.
package git

import (
	"context"
	"errors"
)

// ErrNotInRepo is returned when a path is not inside a git work tree.
var ErrNotInRepo = errors.New("not in a git repository")

// ErrUnknownRevision is returned when the revision or the file at that
// revision does not exist.
var ErrUnknownRevision = errors.New("unknown revision or path")

// Git defines git operations needed by plandiff.
type Git interface {
	// RepoRoot returns the top-level directory of the work tree containing dir.
	RepoRoot(ctx context.Context, dir string) (string, error)
	// ShowFile returns the contents of path as of rev. path may be absolute
	// or relative to dir.
	ShowFile(ctx context.Context, dir, rev, path string) (string, error)
}
