package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/hay-kot/plandiff/internal/core/comments"
	"github.com/hay-kot/plandiff/internal/core/linediff"
	"github.com/hay-kot/plandiff/internal/core/sections"
)

// Result is the computed comparison of one document pair. It is immutable
// once returned and safe to read from multiple goroutines.
type Result struct {
	PairID       string              `json:"pair_id"`
	ContextLines int                 `json:"context_lines"`
	Ops          []linediff.Op       `json:"ops"`
	Lines        []linediff.Line     `json:"-"`
	Hunks        []linediff.Hunk     `json:"hunks"`
	Sections     *sections.Set       `json:"-"`
	Flat         []sections.FlatLine `json:"-"`
	Blocks       []sections.Block    `json:"blocks"`
	Stats        linediff.Stats      `json:"stats"`

	oldText string
	newText string

	// Indexed by 1-based line number; slot 0 is unused.
	oldLines []string
	newLines []string
	oldPos   []int64 // position of the old line in unified order
	newPos   []int64 // position of the new line in unified order
	oldToNew []int   // new line number of an unchanged old line, 0 if removed
}

func compute(oldText, newText string, contextLines int) *Result {
	ops := linediff.Diff(oldText, newText)
	set := sections.Reconcile(ops)
	flat := sections.Flatten(set)

	r := &Result{
		PairID:       PairID(oldText, newText),
		ContextLines: contextLines,
		Ops:          ops,
		Lines:        linediff.Lines(ops),
		Hunks:        linediff.BuildHunks(ops, contextLines),
		Sections:     set,
		Flat:         flat,
		Blocks:       sections.BuildBlocks(set, flat),
		Stats:        linediff.CountStats(ops),
		oldText:      oldText,
		newText:      newText,
	}
	r.index()
	return r
}

// withContext returns a copy of r with hunks rebuilt for contextLines.
func (r *Result) withContext(contextLines int) *Result {
	cp := *r
	cp.ContextLines = contextLines
	cp.Hunks = linediff.BuildHunks(r.Ops, contextLines)
	return &cp
}

func (r *Result) index() {
	var maxOld, maxNew int
	for _, l := range r.Lines {
		maxOld = max(maxOld, l.OldLine)
		maxNew = max(maxNew, l.NewLine)
	}

	r.oldLines = make([]string, maxOld+1)
	r.newLines = make([]string, maxNew+1)
	r.oldPos = make([]int64, maxOld+1)
	r.newPos = make([]int64, maxNew+1)
	r.oldToNew = make([]int, maxOld+1)

	for i, l := range r.Lines {
		pos := int64(i + 1)
		if l.OldLine > 0 {
			r.oldLines[l.OldLine] = l.Text
			r.oldPos[l.OldLine] = pos
			r.oldToNew[l.OldLine] = l.NewLine
		}
		if l.NewLine > 0 {
			r.newLines[l.NewLine] = l.Text
			r.newPos[l.NewLine] = pos
		}
	}
}

// PairID returns a short content hash identifying a document pair.
func PairID(oldText, newText string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d:%s", len(oldText), oldText)
	h.Write([]byte(newText))
	return hex.EncodeToString(h.Sum(nil))[:12]
}

// Old returns the old document text.
func (r *Result) Old() string { return r.oldText }

// New returns the new document text.
func (r *Result) New() string { return r.newText }

// Matches reports whether r was computed for exactly this pair.
func (r *Result) Matches(oldText, newText string) bool {
	return r != nil && r.oldText == oldText && r.newText == newText
}

// HasChanges reports whether the documents differ.
func (r *Result) HasChanges() bool {
	return r != nil && linediff.HasChanges(r.Ops)
}

// OldLineCount returns the number of lines in the old document.
func (r *Result) OldLineCount() int { return len(r.oldLines) - 1 }

// NewLineCount returns the number of lines in the new document.
func (r *Result) NewLineCount() int { return len(r.newLines) - 1 }

// Canonical maps key to the single key used to store a comment for that
// line. Old-side keys of lines that survive into the new document become
// new-side keys, so a line has one address whichever view it was picked in.
func (r *Result) Canonical(key comments.Key) (comments.Key, bool) {
	side, n, err := key.Parse()
	if err != nil {
		return "", false
	}

	switch side {
	case comments.SideNew:
		if n < 1 || n >= len(r.newLines) {
			return "", false
		}
		return key, true
	case comments.SideOld:
		if n < 1 || n >= len(r.oldLines) {
			return "", false
		}
		if to := r.oldToNew[n]; to > 0 {
			return comments.NewLineKey(to), true
		}
		return key, true
	}
	return "", false
}

// SortKey returns the position of the line in unified order. Comments on
// removed lines sort next to the lines around them.
func (r *Result) SortKey(key comments.Key) (int64, bool) {
	key, ok := r.Canonical(key)
	if !ok {
		return 0, false
	}
	side, n, _ := key.Parse()
	if side == comments.SideOld {
		return r.oldPos[n], true
	}
	return r.newPos[n], true
}

// LineText returns the text of the line key points at.
func (r *Result) LineText(key comments.Key) (string, bool) {
	key, ok := r.Canonical(key)
	if !ok {
		return "", false
	}
	side, n, _ := key.Parse()
	if side == comments.SideOld {
		return r.oldLines[n], true
	}
	return r.newLines[n], true
}

// Label returns the human readable name of the line key points at, "Line 12"
// for new-document lines and "Removed line 4" for removed lines.
func (r *Result) Label(key comments.Key) (string, bool) {
	key, ok := r.Canonical(key)
	if !ok {
		return "", false
	}
	side, n, _ := key.Parse()
	if side == comments.SideOld {
		return "Removed line " + strconv.Itoa(n), true
	}
	return "Line " + strconv.Itoa(n), true
}

// KeyForLine returns the comment key of a hunk line.
func KeyForLine(l linediff.Line) (comments.Key, bool) {
	switch {
	case l.NewLine > 0:
		return comments.NewLineKey(l.NewLine), true
	case l.OldLine > 0:
		return comments.OldLineKey(l.OldLine), true
	}
	return "", false
}

// ResolveAnchor returns the key of a structured-view leaf. Leaves on removed
// lines have no key.
func (r *Result) ResolveAnchor(anchor sections.Anchor, localLine int) (comments.Key, bool) {
	line, ok := sections.Resolve(r.Sections, anchor, localLine)
	if !ok || line >= len(r.newLines) {
		return "", false
	}
	return comments.NewLineKey(line), true
}
