// Package sections reconciles line diff operations into typed sections and
// lays them out as render blocks for the structured (markdown) view.
//
// # Line Addressing
//
// Every line of the structured view is addressed by the section it came from,
// its diff type and its offset within that section's run of that type. A
// Modified section contributes two runs, removed and added, each with offsets
// starting at 0. Resolve turns such an anchor plus a renderer-reported local
// line into an absolute 1-indexed line in the new document, which is the
// single address used for comments in every view.
package sections

import (
	"fmt"

	"github.com/hay-kot/plandiff/internal/core/linediff"
)

// Kind is the semantic type of a section.
type Kind int

const (
	KindContext  Kind = iota // Unchanged text
	KindAdded                // Text only in the new document
	KindRemoved              // Text only in the old document
	KindModified             // Removed text directly replaced by added text
)

// String returns the string representation of the section kind.
func (k Kind) String() string {
	switch k {
	case KindContext:
		return "context"
	case KindAdded:
		return "added"
	case KindRemoved:
		return "removed"
	case KindModified:
		return "modified"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// DiffType is the diff coloring of a single rendered line.
type DiffType = linediff.LineType

const (
	Context = linediff.LineContext
	Added   = linediff.LineAdded
	Removed = linediff.LineRemoved
)

// ID identifies a section. IDs are assigned in order of appearance, so
// reconciling the same operations twice yields the same IDs, and an ID is
// also the section's index in its Set.
type ID int

// String returns the display form of the ID.
func (id ID) String() string {
	return fmt.Sprintf("s%d", int(id))
}

// Section is a contiguous, typed run of diff content.
type Section struct {
	ID          ID     `json:"id"`
	Kind        Kind   `json:"kind"`
	Text        string `json:"text,omitempty"`         // content for Context, Added and Removed sections
	RemovedText string `json:"removed_text,omitempty"` // old content of a Modified section
	AddedText   string `json:"added_text,omitempty"`   // new content of a Modified section
	NewStart    int    `json:"new_start"`              // first new-document line (0 for Removed sections)
	OldStart    int    `json:"old_start"`              // first old-document line (0 for Added sections)
}

// HasNewStart reports whether the section exists in the new document.
func (s Section) HasNewStart() bool {
	return s.NewStart > 0
}

// Set is an immutable, ordered collection of sections with O(1) lookup.
type Set struct {
	sections []Section
}

// NewSet wraps sections, renumbering IDs so each one matches its index.
func NewSet(sections []Section) *Set {
	out := make([]Section, len(sections))
	for i, s := range sections {
		s.ID = ID(i)
		out[i] = s
	}
	return &Set{sections: out}
}

// Len returns the number of sections.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.sections)
}

// All returns a copy of the sections in order.
func (s *Set) All() []Section {
	if s == nil {
		return nil
	}
	out := make([]Section, len(s.sections))
	copy(out, s.sections)
	return out
}

// Lookup returns the section with the given ID.
func (s *Set) Lookup(id ID) (Section, bool) {
	if s == nil || id < 0 || int(id) >= len(s.sections) {
		return Section{}, false
	}
	return s.sections[id], true
}

// HasChanges reports whether any section is not a Context section.
func (s *Set) HasChanges() bool {
	if s == nil {
		return false
	}
	for _, sec := range s.sections {
		if sec.Kind != KindContext {
			return true
		}
	}
	return false
}
