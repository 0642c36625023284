// Package engine owns the comparison pipeline for the document pair under
// review and the comments attached to that pair.
//
// The engine caches the last computed Result keyed by the exact (old, new)
// contents. Comparing a different pair clears every comment in the same
// critical section that swaps the Result, so no caller can observe comments
// made against a previous pair.
package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hay-kot/plandiff/internal/core/comments"
	"github.com/hay-kot/plandiff/internal/core/linediff"
	"github.com/hay-kot/plandiff/internal/core/logging"
	"github.com/hay-kot/plandiff/internal/core/sections"
)

var (
	// ErrInvalidAddress is returned when a comment targets a line that has no
	// address, such as a removed line in the structured view or a line number
	// outside the documents.
	ErrInvalidAddress = errors.New("invalid comment address")
	// ErrCommentModeOff is returned when comments are added while comment
	// mode is disabled.
	ErrCommentModeOff = errors.New("comment mode is off")
	// ErrEmptyComment is returned when a comment has no text.
	ErrEmptyComment = errors.New("comment text is empty")
	// ErrNoDocuments is returned by comment operations before the first Compare.
	ErrNoDocuments = errors.New("no documents compared")
)

// Options configures an Engine.
type Options struct {
	// ContextLines is the number of unchanged lines shown around each change.
	// Negative values select linediff.DefaultContextLines.
	ContextLines int
	// CommentMode enables comment creation.
	CommentMode bool
}

// Engine compares document pairs and tracks review comments. It is safe for
// concurrent use.
type Engine struct {
	mu          sync.Mutex
	id          string
	contextLine int
	commentMode bool
	result      *Result
	store       *comments.Store
	log         zerolog.Logger
}

// New creates an Engine.
func New(opts Options) *Engine {
	if opts.ContextLines < 0 {
		opts.ContextLines = linediff.DefaultContextLines
	}

	id := uuid.NewString()
	return &Engine{
		id:          id,
		contextLine: opts.ContextLines,
		commentMode: opts.CommentMode,
		store:       comments.NewStore(),
		log:         logging.Component("engine").With().Str("engine_id", id).Logger(),
	}
}

// ID returns the unique id of the engine, used to correlate log lines.
func (e *Engine) ID() string { return e.id }

// Compare returns the result for the pair, computing it only when the pair
// differs from the cached one. changed reports whether a new pair was loaded;
// in that case any existing comments have been cleared.
func (e *Engine) Compare(ctx context.Context, oldText, newText string) (res *Result, changed bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.result.Matches(oldText, newText) {
		e.log.Debug().Ctx(logging.WithPairID(ctx, e.result.PairID)).Msg("diff cache hit")
		return e.result, false
	}

	r := compute(oldText, newText, e.contextLine)
	ctx = logging.WithPairID(ctx, r.PairID)

	if n := e.store.Len(); e.result != nil {
		e.store.Clear()
		if n > 0 {
			e.log.Debug().Ctx(ctx).Int("count", n).Msg("comments cleared for new document pair")
		}
	}
	e.result = r

	e.log.Debug().Ctx(ctx).
		Int("hunks", len(r.Hunks)).
		Int("sections", r.Sections.Len()).
		Int("added", r.Stats.Added).
		Int("removed", r.Stats.Removed).
		Msg("diff computed")

	return r, true
}

// Result returns the cached result, or nil before the first Compare.
func (e *Engine) Result() *Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}

// SetContextLines changes the hunk context. The pair is unchanged so comments
// are kept.
func (e *Engine) SetContextLines(n int) *Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.contextLine = max(n, 0)
	if e.result != nil && e.result.ContextLines != e.contextLine {
		e.result = e.result.withContext(e.contextLine)
	}
	return e.result
}

// ContextLines returns the configured hunk context.
func (e *Engine) ContextLines() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.contextLine
}

// SetCommentMode enables or disables comment creation.
func (e *Engine) SetCommentMode(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commentMode = on
}

// CommentMode reports whether comment creation is enabled.
func (e *Engine) CommentMode() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commentMode
}

// AddComment attaches text to the line addressed by key, replacing any
// comment already on that line.
func (e *Engine) AddComment(ctx context.Context, key comments.Key, text string) (comments.Comment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.addLocked(ctx, key, text)
}

// AddCommentAt attaches text to a structured-view leaf. anchor locates the
// block the leaf belongs to and localLine is the 1-indexed line the markdown
// renderer reported for it.
func (e *Engine) AddCommentAt(ctx context.Context, anchor sections.Anchor, localLine int, text string) (comments.Comment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.result == nil {
		return comments.Comment{}, ErrNoDocuments
	}

	key, ok := e.result.ResolveAnchor(anchor, localLine)
	if !ok {
		return comments.Comment{}, fmt.Errorf("resolve %s+%d line %d: %w", anchor.Section, anchor.Offset, localLine, ErrInvalidAddress)
	}
	return e.addLocked(ctx, key, text)
}

func (e *Engine) addLocked(ctx context.Context, key comments.Key, text string) (comments.Comment, error) {
	if !e.commentMode {
		return comments.Comment{}, ErrCommentModeOff
	}
	if e.result == nil {
		return comments.Comment{}, ErrNoDocuments
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return comments.Comment{}, ErrEmptyComment
	}

	r := e.result
	canon, ok := r.Canonical(key)
	if !ok {
		return comments.Comment{}, fmt.Errorf("add comment %s: %w", key, ErrInvalidAddress)
	}

	var (
		line, _    = r.LineText(canon)
		label, _   = r.Label(canon)
		sortKey, _ = r.SortKey(canon)
	)
	e.store.Add(canon, line, text, label, sortKey)

	e.log.Debug().Ctx(logging.WithPairID(ctx, r.PairID)).
		Str("key", string(canon)).
		Int64("sort_key", sortKey).
		Msg("comment added")

	c, _ := e.store.Get(canon)
	return c, nil
}

// RemoveComment deletes the comment on the line addressed by key. It reports
// whether a comment was removed.
func (e *Engine) RemoveComment(ctx context.Context, key comments.Key) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.result == nil {
		return false
	}
	canon, ok := e.result.Canonical(key)
	if !ok {
		return false
	}

	removed := e.store.Remove(canon)
	if removed {
		e.log.Debug().Ctx(logging.WithPairID(ctx, e.result.PairID)).
			Str("key", string(canon)).
			Msg("comment removed")
	}
	return removed
}

// Comment returns the comment on the line addressed by key.
func (e *Engine) Comment(key comments.Key) (comments.Comment, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.result == nil {
		return comments.Comment{}, false
	}
	canon, ok := e.result.Canonical(key)
	if !ok {
		return comments.Comment{}, false
	}
	return e.store.Get(canon)
}

// ClearComments removes every comment.
func (e *Engine) ClearComments() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.Clear()
}

// Comments returns the comments in prompt order.
func (e *Engine) Comments() []comments.Comment {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Collect(e.store.Sorted())
}

// CommentKeys returns the keys of every stored comment.
func (e *Engine) CommentKeys() []comments.Key {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Keys()
}

// CommentCount returns the number of stored comments.
func (e *Engine) CommentCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Len()
}

// Prompt serializes the comments using header. An empty header selects
// comments.DefaultPromptHeader. Without comments the prompt is empty.
func (e *Engine) Prompt(header string) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if header == "" {
		return e.store.Serialize()
	}
	return e.store.SerializeWithHeader(header)
}
