package linediff

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// numbered returns "prefix1\nprefix2\n...prefixN\n".
func numbered(prefix string, n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "%s%d\n", prefix, i)
	}
	return b.String()
}

func TestBuildHunks_NoChanges(t *testing.T) {
	ops := Diff("x\ny", "x\ny")
	assert.Empty(t, BuildHunks(ops, DefaultContextLines))
}

func TestLines_Numbering(t *testing.T) {
	lines := Lines(Diff("a\nb\nc\n", "a\nx\nc\nd\n"))

	want := []Line{
		{Type: LineContext, Text: "a", OldLine: 1, NewLine: 1},
		{Type: LineRemoved, Text: "b", OldLine: 2},
		{Type: LineAdded, Text: "x", NewLine: 2},
		{Type: LineContext, Text: "c", OldLine: 3, NewLine: 3},
		{Type: LineAdded, Text: "d", NewLine: 4},
	}
	assert.Equal(t, want, lines)
}

func TestBuildHunks_SingleChangeWithGaps(t *testing.T) {
	old := numbered("line", 20)
	new := strings.Replace(old, "line10\n", "changed\n", 1)

	hunks := BuildHunks(Diff(old, new), 3)
	require.Len(t, hunks, 1)

	h := hunks[0]
	// lines 7..13 of context plus one removed and one added line
	assert.Len(t, h.Lines, 8)
	assert.Equal(t, 6, h.GapBefore)
	assert.Equal(t, 7, h.GapAfter)
	assert.Equal(t, 7, h.OldStart())
	assert.Equal(t, 7, h.NewStart())
}

func TestBuildHunks_MergesOverlappingRanges(t *testing.T) {
	old := numbered("line", 20)
	new := strings.Replace(old, "line5\n", "five\n", 1)
	new = strings.Replace(new, "line9\n", "nine\n", 1)

	hunks := BuildHunks(Diff(old, new), 3)
	require.Len(t, hunks, 1, "changes 4 lines apart share context")
	assert.Equal(t, 1, hunks[0].GapBefore)
	assert.Equal(t, 8, hunks[0].GapAfter)
}

func TestBuildHunks_SeparateHunks(t *testing.T) {
	old := numbered("line", 30)
	new := strings.Replace(old, "line3\n", "three\n", 1)
	new = strings.Replace(new, "line25\n", "twentyfive\n", 1)

	hunks := BuildHunks(Diff(old, new), 2)
	require.Len(t, hunks, 2)

	assert.Equal(t, 0, hunks[0].GapBefore, "first hunk touches the document start")
	assert.Equal(t, 17, hunks[0].GapAfter)
	assert.Equal(t, 17, hunks[1].GapBefore)
	assert.Equal(t, 3, hunks[1].GapAfter)
}

func TestBuildHunks_ZeroContext(t *testing.T) {
	hunks := BuildHunks(Diff("a\nb\nc\n", "a\nB\nc\n"), 0)
	require.Len(t, hunks, 1)

	require.Len(t, hunks[0].Lines, 2)
	assert.Equal(t, LineRemoved, hunks[0].Lines[0].Type)
	assert.Equal(t, LineAdded, hunks[0].Lines[1].Type)
	assert.Equal(t, 1, hunks[0].GapBefore)
	assert.Equal(t, 1, hunks[0].GapAfter)
}

func TestBuildHunks_HunkLinesAreAllVisibleLines(t *testing.T) {
	old := numbered("l", 12)
	new := strings.Replace(old, "l6\n", "", 1)

	hunks := BuildHunks(Diff(old, new), 1)
	require.Len(t, hunks, 1)

	var texts []string
	for _, l := range hunks[0].Lines {
		texts = append(texts, l.Type.Marker()+l.Text)
	}
	assert.Equal(t, []string{" l5", "-l6", " l7"}, texts)
}

func TestSplitRows_PadsShorterSide(t *testing.T) {
	hunks := BuildHunks(Diff("a\nb\nc\nd\n", "a\nX\nd\n"), 3)
	require.Len(t, hunks, 1)

	rows := SplitRows(hunks[0])
	require.Len(t, rows, 4)

	assert.Equal(t, "a", rows[0].Left.Text)
	assert.Same(t, rows[0].Left, rows[0].Right, "context lines render on both sides")

	assert.Equal(t, "b", rows[1].Left.Text)
	assert.Equal(t, "X", rows[1].Right.Text)

	assert.Equal(t, "c", rows[2].Left.Text)
	assert.Nil(t, rows[2].Right, "missing added line is a blank placeholder")

	assert.Equal(t, "d", rows[3].Left.Text)
}

func TestSplitRows_OnlyAdditions(t *testing.T) {
	hunks := BuildHunks(Diff("a\n", "a\nb\nc\n"), 3)
	require.Len(t, hunks, 1)

	rows := SplitRows(hunks[0])
	require.Len(t, rows, 3)
	assert.Nil(t, rows[1].Left)
	assert.Equal(t, "b", rows[1].Right.Text)
	assert.Nil(t, rows[2].Left)
	assert.Equal(t, "c", rows[2].Right.Text)
}

func TestSplitRows_ColumnsHaveEqualHeights(t *testing.T) {
	old := "keep\nr1\nr2\nr3\nkeep2\n"
	new := "keep\na1\nkeep2\na2\na3\n"

	for _, h := range BuildHunks(Diff(old, new), 3) {
		left, right := 0, 0
		for _, row := range SplitRows(h) {
			left++
			right++
			if row.Left != nil {
				assert.NotEqual(t, LineAdded, row.Left.Type)
			}
			if row.Right != nil {
				assert.NotEqual(t, LineRemoved, row.Right.Type)
			}
		}
		assert.Equal(t, left, right)
	}
}

func TestViewMode_IsValid(t *testing.T) {
	assert.True(t, ViewUnified.IsValid())
	assert.True(t, ViewSplit.IsValid())
	assert.False(t, ViewMode("columns").IsValid())
}
