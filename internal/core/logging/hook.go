package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts pair_id, view_mode and review_id from the event
// context and adds them to log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if id := GetPairID(ctx); id != "" {
		e.Str("pair_id", id)
	}

	if mode := GetViewMode(ctx); mode != "" {
		e.Str("view_mode", mode)
	}

	if id := GetReviewID(ctx); id != "" {
		e.Str("review_id", id)
	}
}
