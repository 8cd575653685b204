package log

import (
	"context"

	"github.com/rs/zerolog"
)

// ctxKey is unexported so only this package can attach loggers to a context.
type ctxKey struct{}

// WithLogger returns a child context carrying logger. Handlers and services
// below it pick the logger up via Ctx, so request-scoped fields such as the
// request id travel with the context instead of being re-attached at every
// call site.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// Ctx returns the logger carried by ctx. It falls back to the global logger
// when the context has none, or when ctx is nil.
func Ctx(ctx context.Context) zerolog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(zerolog.Logger); ok {
			return l
		}
	}
	return L()
}
