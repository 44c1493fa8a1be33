// Package logutil carries a request- or command-scoped zerolog logger
// through a context, falling back to the global logger when a caller
// never attached one.
package logutil

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ctxKey struct{}

// WithLogger attaches logger to ctx; handlers and commands downstream
// recover it with GetOrDefault.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// GetOrDefault returns the logger attached to ctx, or the process-wide
// default when there is none.
func GetOrDefault(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(zerolog.Logger); ok {
		return logger
	}
	return log.Logger
}

// Console returns a logger that writes human readable output to stderr,
// meant for the CLI entrypoints.
func Console() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
