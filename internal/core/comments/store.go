// Package comments holds review comments anchored to document lines and
// serializes them into a prompt for a downstream model.
package comments

import (
	"iter"
	"slices"
	"sync"
)

// Comment is feedback attached to one line of a document pair.
type Comment struct {
	Key        Key    `json:"key" yaml:"key"`
	SourceLine string `json:"source_line" yaml:"source_line"` // text of the commented line
	Text       string `json:"text" yaml:"text"`
	Label      string `json:"label" yaml:"label"` // e.g. "Line 12"
	SortKey    int64  `json:"sort_key" yaml:"sort_key"`
}

// State is the lifecycle state of a Store for one document pair.
type State int

const (
	StateEmpty     State = iota // No comment added since creation or the last Clear
	StatePopulated              // At least one comment added since the last Clear
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePopulated:
		return "populated"
	default:
		return "unknown"
	}
}

type entry struct {
	comment Comment
	seq     uint64 // insertion order, kept when a comment is overwritten
}

// Store is an ordered map of comments keyed by line address. It is safe for
// concurrent use.
type Store struct {
	mu      sync.Mutex
	entries map[Key]entry
	nextSeq uint64
	state   State
}

// NewStore creates an empty comment store.
func NewStore() *Store {
	return &Store{entries: make(map[Key]entry)}
}

// Add inserts a comment or overwrites the comment already stored under key.
func (s *Store) Add(key Key, sourceLine, text, label string, sortKey int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := Comment{
		Key:        key,
		SourceLine: sourceLine,
		Text:       text,
		Label:      label,
		SortKey:    sortKey,
	}

	if existing, ok := s.entries[key]; ok {
		s.entries[key] = entry{comment: c, seq: existing.seq}
	} else {
		s.entries[key] = entry{comment: c, seq: s.nextSeq}
		s.nextSeq++
	}
	s.state = StatePopulated
}

// Remove deletes the comment stored under key. It reports whether a comment
// was removed.
func (s *Store) Remove(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		return false
	}
	delete(s.entries, key)
	return true
}

// Clear removes every comment and returns the store to StateEmpty.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[Key]entry)
	s.nextSeq = 0
	s.state = StateEmpty
}

// Get returns the comment stored under key.
func (s *Store) Get(key Key) (Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	return e.comment, ok
}

// Len returns the number of stored comments.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// State returns the lifecycle state of the store.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Keys returns the keys of all stored comments in sorted order.
func (s *Store) Keys() []Key {
	var keys []Key
	for c := range s.Sorted() {
		keys = append(keys, c.Key)
	}
	return keys
}

// Sorted returns a sequence of the stored comments ordered by ascending
// SortKey, ties broken by insertion order. Each iteration takes a fresh
// snapshot, so the sequence can be ranged over more than once.
func (s *Store) Sorted() iter.Seq[Comment] {
	return func(yield func(Comment) bool) {
		for _, e := range s.snapshot() {
			if !yield(e.comment) {
				return
			}
		}
	}
}

func (s *Store) snapshot() []entry {
	s.mu.Lock()
	out := make([]entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	s.mu.Unlock()

	slices.SortFunc(out, func(a, b entry) int {
		if a.comment.SortKey != b.comment.SortKey {
			if a.comment.SortKey < b.comment.SortKey {
				return -1
			}
			return 1
		}
		if a.seq < b.seq {
			return -1
		}
		if a.seq > b.seq {
			return 1
		}
		return 0
	})

	return out
}
