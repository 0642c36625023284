package sections

import (
	"encoding/json"
	"testing"

	"github.com/hay-kot/plandiff/internal/core/linediff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipeline(old, new string) (*Set, []FlatLine, []Block) {
	set := Reconcile(linediff.Diff(old, new))
	lines := Flatten(set)
	return set, lines, BuildBlocks(set, lines)
}

func TestReconcile_NoChange(t *testing.T) {
	set := Reconcile(linediff.Diff("x\ny", "x\ny"))

	require.Equal(t, 1, set.Len())
	sec, ok := set.Lookup(0)
	require.True(t, ok)
	assert.Equal(t, KindContext, sec.Kind)
	assert.Equal(t, 1, sec.NewStart)
	assert.False(t, set.HasChanges())
}

func TestReconcile_TitleScenario(t *testing.T) {
	set := Reconcile(linediff.Diff("# Title\nold line\n", "# Title\nnew line\n"))

	all := set.All()
	require.Len(t, all, 2)

	assert.Equal(t, Section{ID: 0, Kind: KindContext, Text: "# Title\n", NewStart: 1, OldStart: 1}, all[0])
	assert.Equal(t, Section{
		ID:          1,
		Kind:        KindModified,
		RemovedText: "old line\n",
		AddedText:   "new line\n",
		NewStart:    2,
		OldStart:    2,
	}, all[1])

	addr, ok := Resolve(set, Anchor{Section: 1, Type: Added, Offset: 0}, 1)
	require.True(t, ok)
	assert.Equal(t, 2, addr)
}

func TestReconcile_Kinds(t *testing.T) {
	ops := []linediff.Op{
		{Kind: linediff.Equal, Text: "a\nb\n"},
		{Kind: linediff.Delete, Text: "c\n"},
		{Kind: linediff.Equal, Text: "d\n"},
		{Kind: linediff.Insert, Text: "e\nf\n"},
		{Kind: linediff.Equal, Text: "g\n"},
		{Kind: linediff.Delete, Text: "h\ni\n"},
		{Kind: linediff.Insert, Text: "j\n"},
		{Kind: linediff.Equal, Text: "k\n"},
	}

	all := Reconcile(ops).All()
	require.Len(t, all, 7)

	tests := []struct {
		kind     Kind
		newStart int
		oldStart int
	}{
		{KindContext, 1, 1},
		{KindRemoved, 0, 3},
		{KindContext, 3, 4},
		{KindAdded, 4, 0},
		{KindContext, 6, 5},
		{KindModified, 7, 6},
		{KindContext, 8, 8},
	}

	for i, tt := range tests {
		assert.Equal(t, ID(i), all[i].ID)
		assert.Equal(t, tt.kind, all[i].Kind, "section %d", i)
		assert.Equal(t, tt.newStart, all[i].NewStart, "section %d new start", i)
		assert.Equal(t, tt.oldStart, all[i].OldStart, "section %d old start", i)
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	old := "# Plan\n\n```go\nfmt.Println(1)\n```\n\n- a\n- b\n"
	new := "# Plan v2\n\n```go\nfmt.Println(2)\nreturn\n```\n\n- a\n- c\n- d\n"

	set1, lines1, blocks1 := pipeline(old, new)
	set2, lines2, blocks2 := pipeline(old, new)

	assert.Equal(t, set1.All(), set2.All())
	assert.Equal(t, lines1, lines2)
	assert.Equal(t, blocks1, blocks2)
}

func TestSet_LookupOutOfRange(t *testing.T) {
	set := Reconcile(linediff.Diff("a\n", "b\n"))

	_, ok := set.Lookup(-1)
	assert.False(t, ok)
	_, ok = set.Lookup(ID(set.Len()))
	assert.False(t, ok)

	var nilSet *Set
	_, ok = nilSet.Lookup(0)
	assert.False(t, ok)
	assert.Equal(t, 0, nilSet.Len())
}

func TestNewSet_RenumbersIDs(t *testing.T) {
	set := NewSet([]Section{{ID: 7, Kind: KindContext, Text: "a\n", NewStart: 1}})
	sec, ok := set.Lookup(0)
	require.True(t, ok)
	assert.Equal(t, ID(0), sec.ID)
	assert.Equal(t, "s0", sec.ID.String())
}

func TestFlatten_ModifiedRunsHaveIndependentOffsets(t *testing.T) {
	set := Reconcile(linediff.Diff("keep\nr1\nr2\nr3\n", "keep\na1\na2\n"))
	lines := Flatten(set)

	want := []FlatLine{
		{Text: "keep", Type: Context, Section: 0, Offset: 0},
		{Text: "r1", Type: Removed, Section: 1, Offset: 0},
		{Text: "r2", Type: Removed, Section: 1, Offset: 1},
		{Text: "r3", Type: Removed, Section: 1, Offset: 2},
		{Text: "a1", Type: Added, Section: 1, Offset: 0},
		{Text: "a2", Type: Added, Section: 1, Offset: 1},
	}
	assert.Equal(t, want, lines)
}

func TestFlatten_EmptyDocumentIsOneEmptyLine(t *testing.T) {
	lines := Flatten(Reconcile(linediff.Diff("", "")))
	assert.Equal(t, []FlatLine{{Text: "", Type: Context, Section: 0, Offset: 0}}, lines)
}

func TestBuildBlocks_MarkdownGrouping(t *testing.T) {
	_, _, blocks := pipeline("# Title\nold line\n", "# Title\nnew line\n")

	require.Len(t, blocks, 3)
	assert.Equal(t, MarkdownBlock{Type: Context, Section: 0, Offset: 0, Lines: []string{"# Title"}}, blocks[0])
	assert.Equal(t, MarkdownBlock{Type: Removed, Section: 1, Offset: 0, Lines: []string{"old line"}}, blocks[1])
	assert.Equal(t, MarkdownBlock{Type: Added, Section: 1, Offset: 0, Lines: []string{"new line"}}, blocks[2])
}

func TestBuildBlocks_FenceSpanningSections(t *testing.T) {
	set, _, blocks := pipeline("```\na\n", "```\na\nb\n```\n")

	require.Len(t, blocks, 1, "one code block even though the fence spans two sections")
	code, ok := blocks[0].(CodeBlock)
	require.True(t, ok)

	assert.Equal(t, BlockCode, code.Kind())
	assert.Equal(t, Context, code.FenceType)
	assert.Equal(t, ID(0), code.FenceSection)
	assert.Equal(t, 1, code.FenceOffset)
	assert.True(t, code.Closed)

	want := []CodeLine{
		{Text: "a", Type: Context, Section: 0, NewLine: 2},
		{Text: "b", Type: Added, Section: 1, NewLine: 3},
	}
	assert.Equal(t, want, code.Lines)

	for _, cl := range code.Lines {
		addr, ok := ResolveCodeLine(cl)
		require.True(t, ok)
		assert.Equal(t, cl.NewLine, addr)
	}
	assert.Equal(t, 2, set.Len())
}

func TestBuildBlocks_FenceLinesCountTowardOffsets(t *testing.T) {
	doc := "intro\n```go\nx := 1\n```\noutro\n"
	set, _, blocks := pipeline(doc, doc)

	require.Len(t, blocks, 3)

	code := blocks[1].(CodeBlock)
	assert.Equal(t, "go", code.Info)
	assert.Equal(t, "```", code.Fence)
	assert.Equal(t, 2, code.FenceOffset)
	require.Len(t, code.Lines, 1)
	assert.Equal(t, 3, code.Lines[0].NewLine)

	outro := blocks[2].(MarkdownBlock)
	assert.Equal(t, 4, outro.Offset, "closing fence is counted in the section offset")
	addr, ok := Resolve(set, outro.Anchor(), 1)
	require.True(t, ok)
	assert.Equal(t, 5, addr)
}

func TestBuildBlocks_TildeFenceNeedsMatchingCharacter(t *testing.T) {
	doc := "~~~~\n```\nstill code\n~~~\n~~~~~\nafter\n"
	_, _, blocks := pipeline(doc, doc)

	require.Len(t, blocks, 2)
	code := blocks[0].(CodeBlock)
	require.Len(t, code.Lines, 3)
	assert.Equal(t, "```", code.Lines[0].Text)
	assert.Equal(t, "~~~", code.Lines[2].Text, "shorter fence does not close")
	assert.Equal(t, []string{"after"}, blocks[1].(MarkdownBlock).Lines)
}

func TestBuildBlocks_UnterminatedFence(t *testing.T) {
	doc := "text\n```\nline 1\nline 2\n"
	_, _, blocks := pipeline(doc, doc)

	require.Len(t, blocks, 2)
	code := blocks[1].(CodeBlock)
	assert.False(t, code.Closed)
	assert.Equal(t, "line 1\nline 2", code.Text())
}

func TestBuildBlocks_RemovedCodeLinesHaveNoAddress(t *testing.T) {
	old := "```\nkeep\ngone\n```\n"
	new := "```\nkeep\n```\n"
	_, _, blocks := pipeline(old, new)

	require.Len(t, blocks, 1)
	code := blocks[0].(CodeBlock)
	require.Len(t, code.Lines, 2)

	assert.Equal(t, Removed, code.Lines[1].Type)
	assert.Equal(t, 0, code.Lines[1].NewLine)
	_, ok := ResolveCodeLine(code.Lines[1])
	assert.False(t, ok)
}

func TestBlocks_MarshalJSONIncludesKind(t *testing.T) {
	_, _, blocks := pipeline("a\n", "a\n```\nb\n```\n")

	data, err := json.Marshal(blocks)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "markdown", decoded[0]["kind"])
	assert.Equal(t, "context", decoded[0]["type"])
	assert.Equal(t, "code", decoded[1]["kind"])
	assert.Equal(t, "added", decoded[1]["fence_type"])
}

func TestResolve_AddressStability(t *testing.T) {
	set, _, blocks := pipeline("line1\nline2\nline3\n", "line1\nline2\nline3\n")

	require.Len(t, blocks, 1)
	md := blocks[0].(MarkdownBlock)

	addr, ok := Resolve(set, md.Anchor(), 2)
	require.True(t, ok)
	assert.Equal(t, 2, addr)
}

func TestResolve_RemovedLinesHaveNoAddress(t *testing.T) {
	set, lines, _ := pipeline("a\nb\nc\n", "a\nc\nd\n")

	for _, l := range lines {
		addr, ok := ResolveFlatLine(set, l)
		if l.Type == Removed {
			assert.False(t, ok, "removed line %q", l.Text)
			assert.Equal(t, 0, addr)
			continue
		}
		assert.True(t, ok, "line %q", l.Text)
	}
}

func TestResolve_FlatLinesMatchNewDocument(t *testing.T) {
	old := "# Plan\n\nstep 1\nstep 2\n\n```sh\nmake\n```\n"
	new := "# Plan\n\nstep 1\nstep 1.5\nstep 2\n\n```sh\nmake test\n```\nend\n"
	set, lines, _ := pipeline(old, new)

	newLines := linediff.SplitLines(new)
	for _, l := range lines {
		addr, ok := ResolveFlatLine(set, l)
		if !ok {
			continue
		}
		require.LessOrEqual(t, addr, len(newLines))
		assert.Equal(t, newLines[addr-1], l.Text)
	}
}

func TestResolve_InvalidInputs(t *testing.T) {
	set := Reconcile(linediff.Diff("a\nb\n", "a\n"))

	_, ok := Resolve(set, Anchor{Section: 99, Type: Context}, 1)
	assert.False(t, ok, "unknown section")

	_, ok = Resolve(set, Anchor{Section: 1, Type: Context}, 1)
	assert.False(t, ok, "section without a new start")

	_, ok = Resolve(set, Anchor{Section: 0, Type: Context}, 0)
	assert.False(t, ok, "local lines are 1-indexed")
}
