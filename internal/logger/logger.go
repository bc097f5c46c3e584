// Package logger wraps zerolog behind the small logging surface the rest of
// the application uses. Request-scoped fields (request id) are picked up
// from the context when present.
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type ctxKey struct{}

var log zerolog.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

// InitLogging configures the global logger. When filePath is non-empty the
// log is written there as JSON in addition to the console.
func InitLogging(filePath string) {
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	var w io.Writer = console
	if filePath != "" {
		f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err == nil {
			w = zerolog.MultiLevelWriter(console, f)
		} else {
			log.Error().Err(err).Str("path", filePath).Msg("cannot open log file, logging to console only")
		}
	}
	log = zerolog.New(w).With().Timestamp().Logger()
}

// WithRequestID returns a context whose log lines carry the given request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func fromCtx(ctx context.Context, e *zerolog.Event) *zerolog.Event {
	if ctx != nil {
		if id, ok := ctx.Value(ctxKey{}).(string); ok && id != "" {
			e = e.Str("request_id", id)
		}
	}
	return e
}

func InfoLog(ctx context.Context, msg string) {
	fromCtx(ctx, log.Info()).Msg(msg)
}

func WarnLog(ctx context.Context, msg string) {
	fromCtx(ctx, log.Warn()).Msg(msg)
}

func ErrorLog(ctx context.Context, msg string) {
	fromCtx(ctx, log.Error()).Msg(msg)
}
