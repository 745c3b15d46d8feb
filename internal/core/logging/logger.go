// Package logging holds the zerolog conventions shared by every component:
// "cmp" sub-loggers and command and request fields carried on the context.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Install makes base the global logger with ContextHook attached.
func Install(base zerolog.Logger) {
	log.Logger = base.Hook(ContextHook{})
}

// Component derives a logger from the global one tagged with cmp=name.
// Call it after Install so the component inherits the hook and level.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}
