package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/hay-kot/plandiff/pkg/executil"
)

// ErrNothingToCopy is returned when there is no prompt to deliver.
var ErrNothingToCopy = errors.New("no comments to copy")

// Copier places text on the clipboard.
type Copier func(ctx context.Context, text string) error

// NewCopier returns a Copier that pipes text into command, or writes to the
// system clipboard when command is empty.
func NewCopier(command string) Copier {
	if command == "" {
		return func(_ context.Context, text string) error {
			return clipboard.WriteAll(text)
		}
	}
	return func(ctx context.Context, text string) error {
		return executil.RunSh(ctx, "", command, strings.NewReader(text))
	}
}

// SaveFeedback writes the prompt to a timestamped file in dir (or the
// current directory when dir is empty) and returns its path.
func SaveFeedback(dir, prompt string, now time.Time) (string, error) {
	if prompt == "" {
		return "", ErrNothingToCopy
	}

	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get current directory: %w", err)
		}
		dir = wd
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("review-feedback-%s.md", now.Format("2006-01-02-150405")))
	if err := os.WriteFile(path, []byte(prompt), 0o644); err != nil {
		return "", fmt.Errorf("write feedback: %w", err)
	}
	return path, nil
}

// Deliver prints the prompt to w and copies it. When copying fails the
// prompt is saved to a file in saveDir instead.
func Deliver(ctx context.Context, w io.Writer, prompt string, copy Copier, saveDir string) error {
	if prompt == "" {
		return nil
	}

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "=== Review Feedback ===")
	fmt.Fprint(w, prompt)
	fmt.Fprintln(w, "=======================")

	err := copy(ctx, prompt)
	if err == nil {
		fmt.Fprintln(w, "Copied to clipboard.")
		return nil
	}

	fmt.Fprintf(w, "Warning: failed to copy to clipboard: %v\n", err)

	path, saveErr := SaveFeedback(saveDir, prompt, time.Now())
	if saveErr != nil {
		fmt.Fprintln(w, "Feedback is printed above and can be retrieved from terminal history.")
		return fmt.Errorf("save feedback: %w", saveErr)
	}

	fmt.Fprintf(w, "Feedback saved to: %s\n", path)
	return nil
}
