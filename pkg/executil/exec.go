// Package executil provides shell execution utilities.
package executil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const maxStderrLen = 500

// limitedWriter caps writes to a bytes.Buffer at a maximum byte count.
// Bytes beyond the limit are silently discarded.
type limitedWriter struct {
	buf *bytes.Buffer
	n   int64
	max int64
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if w.n >= w.max {
		return len(p), nil
	}
	remaining := w.max - w.n
	origLen := len(p)
	if int64(origLen) > remaining {
		p = p[:remaining]
	}
	n, err := w.buf.Write(p)
	w.n += int64(n)
	if err != nil {
		return n, err
	}
	return origLen, nil
}

// withStderr wraps err with the captured stderr, if any.
func withStderr(buf *bytes.Buffer, err error) error {
	msg := strings.TrimSpace(buf.String())
	if msg != "" {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return err
}

// RunSh executes a shell command in the given directory (empty means inherit
// cwd), feeding it stdin when non-nil. On failure, stderr is returned as the
// error message, capped at 500 bytes to prevent large or ANSI-polluted output
// from corrupting logs or TUI display. The original *exec.ExitError is
// preserved via wrapping so callers can inspect exit codes with errors.As.
func RunSh(ctx context.Context, dir, cmd string, stdin io.Reader) error {
	c := exec.CommandContext(ctx, "sh", "-c", cmd)
	if dir != "" {
		c.Dir = dir
	}
	var buf bytes.Buffer
	c.Stdin = stdin
	c.Stdout = io.Discard
	c.Stderr = &limitedWriter{buf: &buf, max: maxStderrLen}
	if err := c.Run(); err != nil {
		return withStderr(&buf, err)
	}
	return nil
}

// Executor runs commands. Implementations return stdout only, so output can be
// used verbatim (for example file contents from git show).
type Executor interface {
	// Run executes a command and returns its stdout.
	Run(ctx context.Context, cmd string, args ...string) ([]byte, error)
	// RunDir executes a command in a specific directory and returns its stdout.
	RunDir(ctx context.Context, dir, cmd string, args ...string) ([]byte, error)
}

// RealExecutor calls actual commands.
type RealExecutor struct{}

// Run executes a command and returns its stdout.
func (e *RealExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	out, err := e.run(ctx, "", cmd, args...)
	if err != nil {
		return out, fmt.Errorf("exec %s: %w", cmd, err)
	}
	return out, nil
}

// RunDir executes a command in a specific directory and returns its stdout.
func (e *RealExecutor) RunDir(ctx context.Context, dir, cmd string, args ...string) ([]byte, error) {
	out, err := e.run(ctx, dir, cmd, args...)
	if err != nil {
		return out, fmt.Errorf("exec %s in %s: %w", cmd, dir, err)
	}
	return out, nil
}

func (e *RealExecutor) run(ctx context.Context, dir, cmd string, args ...string) ([]byte, error) {
	c := exec.CommandContext(ctx, cmd, args...)
	c.Dir = dir

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &limitedWriter{buf: &stderr, max: maxStderrLen}

	if err := c.Run(); err != nil {
		return stdout.Bytes(), withStderr(&stderr, err)
	}
	return stdout.Bytes(), nil
}
