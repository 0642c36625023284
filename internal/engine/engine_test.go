package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/plandiff/internal/core/comments"
	"github.com/hay-kot/plandiff/internal/core/linediff"
	"github.com/hay-kot/plandiff/internal/core/sections"
)

const (
	planV1 = "# Plan\n\nStep one\nStep two\nStep three\n"
	planV2 = "# Plan\n\nStep one\nStep 2\nStep three\nStep four\n"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	return New(Options{ContextLines: -1, CommentMode: true})
}

func TestCompare_CachesByContent(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	first, changed := e.Compare(ctx, planV1, planV2)
	require.True(t, changed)

	second, changed := e.Compare(ctx, planV1, planV2)
	assert.False(t, changed)
	assert.Same(t, first, second)

	third, changed := e.Compare(ctx, planV1, planV2+"more\n")
	assert.True(t, changed)
	assert.NotEqual(t, first.PairID, third.PairID)
}

func TestCompare_ClearsCommentsOnNewPair(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	e.Compare(ctx, planV1, planV2)
	_, err := e.AddComment(ctx, comments.NewLineKey(4), "why rename?")
	require.NoError(t, err)
	require.Equal(t, 1, e.CommentCount())

	// Same pair keeps comments.
	e.Compare(ctx, planV1, planV2)
	assert.Equal(t, 1, e.CommentCount())

	e.Compare(ctx, planV2, planV2+"next\n")
	assert.Equal(t, 0, e.CommentCount())
	assert.Empty(t, e.Prompt(""))
}

func TestCompare_NoCommentsObservedWithNewPair(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	e.Compare(ctx, "a\n", "b\n")

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = e.AddComment(ctx, comments.NewLineKey(1), "c")
		}()
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				e.Compare(ctx, "a\n", "b\n")
			} else {
				e.Compare(ctx, "a\n", "c\n")
			}
		}()
	}
	wg.Wait()

	// Every stored comment must describe the current pair.
	res := e.Result()
	for _, c := range e.Comments() {
		text, ok := res.LineText(c.Key)
		require.True(t, ok)
		assert.Equal(t, text, c.SourceLine)
	}
}

func TestAddComment_TitleScenario(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	res, _ := e.Compare(ctx, "# Title\n", "# Title\n\nNew paragraph.\n")
	require.True(t, res.HasChanges())

	c, err := e.AddComment(ctx, comments.NewLineKey(3), "Why this change?")
	require.NoError(t, err)
	assert.Equal(t, "New paragraph.", c.SourceLine)
	assert.Equal(t, "Line 3", c.Label)

	assert.Equal(t,
		comments.DefaultPromptHeader+"\n\nLine 3: `New paragraph.`\nComment: Why this change?\n",
		e.Prompt(""),
	)
}

func TestAddComment_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("before compare", func(t *testing.T) {
		e := newEngine(t)
		_, err := e.AddComment(ctx, comments.NewLineKey(1), "x")
		require.ErrorIs(t, err, ErrNoDocuments)
	})

	t.Run("comment mode off", func(t *testing.T) {
		e := New(Options{})
		e.Compare(ctx, "a", "b")
		_, err := e.AddComment(ctx, comments.NewLineKey(1), "x")
		require.ErrorIs(t, err, ErrCommentModeOff)

		e.SetCommentMode(true)
		_, err = e.AddComment(ctx, comments.NewLineKey(1), "x")
		require.NoError(t, err)
	})

	t.Run("out of range", func(t *testing.T) {
		e := newEngine(t)
		e.Compare(ctx, "a\n", "b\n")
		_, err := e.AddComment(ctx, comments.NewLineKey(9), "x")
		require.ErrorIs(t, err, ErrInvalidAddress)
	})

	t.Run("malformed key", func(t *testing.T) {
		e := newEngine(t)
		e.Compare(ctx, "a\n", "b\n")
		_, err := e.AddComment(ctx, comments.Key("line-1"), "x")
		require.ErrorIs(t, err, ErrInvalidAddress)
	})

	t.Run("empty text", func(t *testing.T) {
		e := newEngine(t)
		e.Compare(ctx, "a\n", "b\n")
		_, err := e.AddComment(ctx, comments.NewLineKey(1), "   ")
		require.ErrorIs(t, err, ErrEmptyComment)
	})
}

func TestAddCommentAt_RemovedLineHasNoAddress(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	res, _ := e.Compare(ctx, "keep\ndrop\n", "keep\n")

	var removed *sections.Section
	for _, s := range res.Sections.All() {
		if s.Kind == sections.KindRemoved {
			removed = &s
			break
		}
	}
	require.NotNil(t, removed)

	_, err := e.AddCommentAt(ctx, sections.Anchor{Section: removed.ID, Type: sections.Removed}, 1, "x")
	require.ErrorIs(t, err, ErrInvalidAddress)
	assert.Equal(t, 0, e.CommentCount())

	// The raw view can still address the removed line by its old number.
	c, err := e.AddComment(ctx, comments.OldLineKey(2), "keep this step")
	require.NoError(t, err)
	assert.Equal(t, "Removed line 2", c.Label)
	assert.Equal(t, "drop", c.SourceLine)
}

func TestComments_SameLineAcrossViews(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	res, _ := e.Compare(ctx, planV1, planV2)

	// Structured view: the added "Step four" line.
	var anchor sections.Anchor
	for _, fl := range res.Flat {
		if fl.Text == "Step four" {
			anchor = sections.Anchor{Section: fl.Section, Type: fl.Type, Offset: fl.Offset}
		}
	}
	_, err := e.AddCommentAt(ctx, anchor, 1, "from structured")
	require.NoError(t, err)

	// Raw view: the same line found through the hunks.
	var key comments.Key
	for _, h := range res.Hunks {
		for _, l := range h.Lines {
			if l.Text == "Step four" {
				key, _ = KeyForLine(l)
			}
		}
	}
	c, ok := e.Comment(key)
	require.True(t, ok)
	assert.Equal(t, "from structured", c.Text)

	_, err = e.AddComment(ctx, key, "from raw")
	require.NoError(t, err)
	assert.Equal(t, 1, e.CommentCount())
}

func TestComments_OldKeyOfUnchangedLineIsCanonicalized(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	e.Compare(ctx, "intro\na\n", "new first\nintro\na\n")

	_, err := e.AddComment(ctx, comments.OldLineKey(1), "on intro")
	require.NoError(t, err)

	c, ok := e.Comment(comments.NewLineKey(2))
	require.True(t, ok)
	assert.Equal(t, comments.NewLineKey(2), c.Key)
	assert.Equal(t, "intro", c.SourceLine)
}

func TestComments_OrderedByDocumentPosition(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	e.Compare(ctx, planV1, planV2)

	for _, k := range []comments.Key{
		comments.NewLineKey(6),
		comments.NewLineKey(1),
		comments.OldLineKey(4), // removed "Step two"
		comments.NewLineKey(4),
	} {
		_, err := e.AddComment(ctx, k, "c")
		require.NoError(t, err)
	}

	var labels []string
	for _, c := range e.Comments() {
		labels = append(labels, c.Label)
	}
	assert.Equal(t, []string{"Line 1", "Removed line 4", "Line 4", "Line 6"}, labels)
}

func TestRemoveComment(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	e.Compare(ctx, "a\n", "b\n")

	_, err := e.AddComment(ctx, comments.NewLineKey(1), "x")
	require.NoError(t, err)

	assert.True(t, e.RemoveComment(ctx, comments.NewLineKey(1)))
	assert.False(t, e.RemoveComment(ctx, comments.NewLineKey(1)))
	assert.False(t, e.RemoveComment(ctx, comments.NewLineKey(42)))
}

func TestSetContextLines_KeepsComments(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	e.Compare(ctx, planV1, planV2)
	_, err := e.AddComment(ctx, comments.NewLineKey(1), "x")
	require.NoError(t, err)

	res := e.SetContextLines(0)
	assert.Equal(t, 0, res.ContextLines)
	assert.Equal(t, linediff.BuildHunks(res.Ops, 0), res.Hunks)
	assert.Equal(t, 1, e.CommentCount())
}

func TestResult_NoChange(t *testing.T) {
	e := newEngine(t)
	res, _ := e.Compare(context.Background(), planV1, planV1)

	assert.False(t, res.HasChanges())
	assert.Empty(t, res.Hunks)
	assert.Equal(t, linediff.Stats{}, res.Stats)
	for _, s := range res.Sections.All() {
		assert.Equal(t, sections.KindContext, s.Kind)
	}
}

func TestPairID(t *testing.T) {
	assert.Equal(t, PairID("a", "b"), PairID("a", "b"))
	assert.NotEqual(t, PairID("ab", "c"), PairID("a", "bc"))
	assert.Len(t, PairID("", ""), 12)
}
