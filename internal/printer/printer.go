// Package printer writes styled, human-readable command output.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hay-kot/plandiff/internal/core/styles"
)

type ctxKey struct{}

// Printer writes status lines prefixed with a colored marker.
type Printer struct {
	w io.Writer
}

// New creates a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// NewContext returns a context carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the Printer stored in ctx, or one writing to stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok && p != nil {
		return p
	}
	return New(os.Stderr)
}

// Printf writes an unstyled line.
func (p *Printer) Printf(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Successf writes a line marked as a success.
func (p *Printer) Successf(format string, args ...any) {
	p.marked(styles.StatusOKStyle.Render("✔"), format, args...)
}

// Infof writes an informational line.
func (p *Printer) Infof(format string, args ...any) {
	p.marked(styles.StatusStyle.Render("•"), format, args...)
}

// Warnf writes a line marked as a warning.
func (p *Printer) Warnf(format string, args ...any) {
	p.marked(styles.CommentMarkerStyle.Render("!"), format, args...)
}

// Errorf writes a line marked as an error.
func (p *Printer) Errorf(format string, args ...any) {
	p.marked(styles.StatusErrStyle.Render("✘"), format, args...)
}

func (p *Printer) marked(marker, format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", marker, fmt.Sprintf(format, args...))
}
