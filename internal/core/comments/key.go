package comments

import (
	"fmt"
	"strconv"
	"strings"
)

// Side identifies which document a key refers to.
type Side string

const (
	SideOld Side = "old"
	SideNew Side = "new"
)

// Key addresses a single line of one document, formatted "new:N" or "old:N".
// New-side keys use the absolute new-document line, so the structured view
// and the raw views produce the same key for the same line.
type Key string

// NewLineKey returns the key of a line in the new document.
func NewLineKey(line int) Key {
	return Key(fmt.Sprintf("%s:%d", SideNew, line))
}

// OldLineKey returns the key of a line that exists only in the old document.
func OldLineKey(line int) Key {
	return Key(fmt.Sprintf("%s:%d", SideOld, line))
}

// Parse splits the key into its side and line number.
func (k Key) Parse() (Side, int, error) {
	side, num, ok := strings.Cut(string(k), ":")
	if !ok {
		return "", 0, fmt.Errorf("invalid comment key %q: missing side", k)
	}

	s := Side(side)
	if s != SideOld && s != SideNew {
		return "", 0, fmt.Errorf("invalid comment key %q: unknown side %q", k, side)
	}

	line, err := strconv.Atoi(num)
	if err != nil {
		return "", 0, fmt.Errorf("invalid comment key %q: %w", k, err)
	}
	if line < 1 {
		return "", 0, fmt.Errorf("invalid comment key %q: line must be at least 1", k)
	}

	return s, line, nil
}
