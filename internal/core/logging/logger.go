// Package logging builds component sub-loggers from the global zerolog
// logger and carries per-command context onto log events.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// componentKey is the field naming the subsystem that logged an event.
const componentKey = "cmp"

// Component returns the global logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return log.With().Str(componentKey, name).Logger()
}

// Document returns a component logger bound to one document.
func Document(name, documentID string) zerolog.Logger {
	return log.With().Str(componentKey, name).Str(string(documentIDKey), documentID).Logger()
}
