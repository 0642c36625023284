package linediff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff_NoChange(t *testing.T) {
	ops := Diff("x\ny", "x\ny")
	require.Len(t, ops, 1)
	assert.Equal(t, Op{Kind: Equal, Text: "x\ny"}, ops[0])
	assert.False(t, HasChanges(ops))
}

func TestDiff_EmptyDocuments(t *testing.T) {
	ops := Diff("", "")
	require.Len(t, ops, 1)
	assert.Equal(t, Equal, ops[0].Kind)
	assert.Equal(t, []string{""}, ops[0].Lines())
}

func TestDiff_TitleScenario(t *testing.T) {
	ops := Diff("# Title\nold line\n", "# Title\nnew line\n")

	want := []Op{
		{Kind: Equal, Text: "# Title\n"},
		{Kind: Delete, Text: "old line\n"},
		{Kind: Insert, Text: "new line\n"},
	}
	assert.Equal(t, want, ops)
}

func TestDiff_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
	}{
		{name: "empty to content", old: "", new: "a\nb\n"},
		{name: "content to empty", old: "a\nb\n", new: ""},
		{name: "append", old: "a\n", new: "a\nb\n"},
		{name: "prepend", old: "b\n", new: "a\nb\n"},
		{name: "replace middle", old: "a\nb\nc\n", new: "a\nx\ny\nc\n"},
		{name: "no trailing newline", old: "a\nb", new: "a\nc"},
		{name: "trailing newline added", old: "a", new: "a\n"},
		{name: "interleaved", old: "1\n2\n3\n4\n5\n6\n", new: "1\nx\n3\n4\ny\n6\n7\n"},
		{name: "unicode", old: "héllo\nwörld\n", new: "héllo\nwörld!\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := Diff(tt.old, tt.new)
			assert.Equal(t, tt.old, OldText(ops))
			assert.Equal(t, tt.new, NewText(ops))
		})
	}
}

func TestDiff_Deterministic(t *testing.T) {
	old := "# Plan\n\n- step one\n- step two\n\n## Notes\nkeep\n"
	new := "# Plan\n\n- step one\n- step 2\n- step three\n\n## Notes\nkeep\nmore\n"

	assert.Equal(t, Diff(old, new), Diff(old, new))
}

func TestDiff_DeleteBeforeInsert(t *testing.T) {
	ops := Diff("a\nb\nc\n", "a\nB\nc\n")

	require.Len(t, ops, 4)
	assert.Equal(t, Delete, ops[1].Kind)
	assert.Equal(t, Insert, ops[2].Kind)
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{text: "", want: []string{""}},
		{text: "a", want: []string{"a"}},
		{text: "a\n", want: []string{"a"}},
		{text: "a\nb", want: []string{"a", "b"}},
		{text: "a\nb\n", want: []string{"a", "b"}},
		{text: "a\n\n", want: []string{"a", ""}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitLines(tt.text), "SplitLines(%q)", tt.text)
		assert.Equal(t, len(tt.want), CountLines(tt.text), "CountLines(%q)", tt.text)
	}
}

func TestCountStats(t *testing.T) {
	ops := Diff("a\nb\nc\n", "a\nx\ny\n")
	assert.Equal(t, Stats{Added: 2, Removed: 2}, CountStats(ops))
}

func TestPatch(t *testing.T) {
	assert.Empty(t, Patch("a", "b", "same\n", "same\n"))

	patch := Patch("old.md", "new.md", "a\nb\n", "a\nc\n")
	assert.Contains(t, patch, "--- old.md")
	assert.Contains(t, patch, "+++ new.md")
	assert.Contains(t, patch, "-b")
	assert.Contains(t, patch, "+c")
}
