package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey string

const (
	documentIDKey contextKey = "document_id"
	commandKey    contextKey = "command"
)

// contextFields lists the context values copied onto every log event; the
// key doubles as the field name.
var contextFields = []contextKey{documentIDKey, commandKey}

// WithDocumentID tags ctx with the document being read.
func WithDocumentID(ctx context.Context, documentID string) context.Context {
	return context.WithValue(ctx, documentIDKey, documentID)
}

// WithCommand tags ctx with the running CLI command name.
func WithCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, commandKey, command)
}

// GetDocumentID returns the document id on ctx, or "".
func GetDocumentID(ctx context.Context) string {
	return stringValue(ctx, documentIDKey)
}

// GetCommand returns the command name on ctx, or "".
func GetCommand(ctx context.Context) string {
	return stringValue(ctx, commandKey)
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(key).(string)
	return s
}

// ContextHook copies tagged context values onto events logged with
// Event.Ctx. Install it once on the global logger.
type ContextHook struct{}

// Run implements zerolog.Hook.
func (ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	for _, key := range contextFields {
		if v := stringValue(ctx, key); v != "" {
			e.Str(string(key), v)
		}
	}
}
