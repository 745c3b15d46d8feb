package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies command and request_id from the event context onto the
// log event.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if name := GetCommand(ctx); name != "" {
		e.Str("command", name)
	}

	if id := GetRequestID(ctx); id != "" {
		e.Str("request_id", id)
	}
}
