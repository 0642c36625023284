// Package linediff computes line-level differences between two versions of a
// document and groups them into context-padded hunks for raw-text display.
package linediff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Kind is the type of a diff operation.
type Kind int

const (
	Equal  Kind = iota // Text present in both documents
	Insert             // Text present only in the new document
	Delete             // Text present only in the old document
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case Equal:
		return "equal"
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Op is a single diff operation carrying a run of one or more whole lines.
// Every line in Text keeps its trailing "\n" except possibly the last line of
// a document that does not end in a newline.
type Op struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// Lines returns the lines of the operation's text.
func (o Op) Lines() []string {
	return SplitLines(o.Text)
}

// Diff computes the ordered line-level operations that transform oldText into
// newText. Concatenating Equal and Insert texts reproduces newText and
// concatenating Equal and Delete texts reproduces oldText.
//
// Identical inputs (including two empty documents) yield a single Equal op.
func Diff(oldText, newText string) []Op {
	if oldText == newText {
		return []Op{{Kind: Equal, Text: newText}}
	}

	dmp := diffmatchpatch.New()
	rOld, rNew, lineArray := dmp.DiffLinesToRunes(oldText, newText)
	diffs := dmp.DiffMainRunes(rOld, rNew, false)
	diffs = dmp.DiffCleanupMerge(diffs)

	// The diff runs on runes that index into lineArray; map them back to text.
	decode := func(s string) string {
		var b strings.Builder
		for _, r := range s {
			idx := int(r)
			if idx >= 0 && idx < len(lineArray) {
				b.WriteString(lineArray[idx])
			}
		}
		return b.String()
	}

	ops := make([]Op, 0, len(diffs))
	for _, d := range diffs {
		text := decode(d.Text)
		if text == "" {
			continue
		}

		var kind Kind
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			kind = Equal
		case diffmatchpatch.DiffInsert:
			kind = Insert
		case diffmatchpatch.DiffDelete:
			kind = Delete
		}

		// DiffCleanupMerge already coalesces neighbours, but decoding can leave
		// two runs of the same kind next to each other.
		if n := len(ops); n > 0 && ops[n-1].Kind == kind {
			ops[n-1].Text += text
			continue
		}
		ops = append(ops, Op{Kind: kind, Text: text})
	}

	return normalizeOrder(ops)
}

// normalizeOrder makes every Insert that directly precedes a Delete come after
// it, so a change always reads as Delete then Insert.
func normalizeOrder(ops []Op) []Op {
	for i := 0; i+1 < len(ops); i++ {
		if ops[i].Kind == Insert && ops[i+1].Kind == Delete {
			ops[i], ops[i+1] = ops[i+1], ops[i]
		}
	}
	return ops
}

// SplitLines splits text on "\n". A trailing newline does not produce an
// extra empty element and empty text yields a single empty line.
func SplitLines(text string) []string {
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// CountLines returns len(SplitLines(text)) without allocating.
func CountLines(text string) int {
	text = strings.TrimSuffix(text, "\n")
	return strings.Count(text, "\n") + 1
}

// OldText reconstructs the old document from ops.
func OldText(ops []Op) string {
	var b strings.Builder
	for _, op := range ops {
		if op.Kind != Insert {
			b.WriteString(op.Text)
		}
	}
	return b.String()
}

// NewText reconstructs the new document from ops.
func NewText(ops []Op) string {
	var b strings.Builder
	for _, op := range ops {
		if op.Kind != Delete {
			b.WriteString(op.Text)
		}
	}
	return b.String()
}

// HasChanges reports whether any op is an Insert or Delete.
func HasChanges(ops []Op) bool {
	for _, op := range ops {
		if op.Kind != Equal {
			return true
		}
	}
	return false
}
