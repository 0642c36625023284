package sections

// Anchor locates the first line of a rendered block within its section.
type Anchor struct {
	Section ID       `json:"section"`
	Type    DiffType `json:"type"`
	Offset  int      `json:"offset"`
}

// Resolve returns the absolute 1-indexed new-document line for a rendered
// leaf. localLine is the 1-indexed line the renderer reported for the leaf,
// relative to the text of the block described by anchor.
//
// Removed lines and sections without a presence in the new document have no
// address; Resolve reports false for them.
func Resolve(set *Set, anchor Anchor, localLine int) (int, bool) {
	if anchor.Type == Removed || localLine < 1 {
		return 0, false
	}

	sec, ok := set.Lookup(anchor.Section)
	if !ok || !sec.HasNewStart() {
		return 0, false
	}

	return sec.NewStart + anchor.Offset + localLine - 1, true
}

// ResolveCodeLine returns the precomputed address of a code line.
func ResolveCodeLine(line CodeLine) (int, bool) {
	if line.Type == Removed || line.NewLine < 1 {
		return 0, false
	}
	return line.NewLine, true
}

// ResolveFlatLine returns the address of a flattened line.
func ResolveFlatLine(set *Set, line FlatLine) (int, bool) {
	return Resolve(set, Anchor{Section: line.Section, Type: line.Type, Offset: line.Offset}, 1)
}
