package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts doc_id and doc from context and adds them to log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if id, ok := GetDocID(ctx); ok {
		e.Uint64("doc_id", id)
	}

	if title := GetDocument(ctx); title != "" {
		e.Str("doc", title)
	}
}
