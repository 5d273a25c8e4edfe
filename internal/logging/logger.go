package logging

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

type contextKey string

const loggerKey = contextKey("logger")

var (
	defaultLogger     log.Logger
	defaultLoggerOnce sync.Once
)

// DefaultLogger is a logfmt logger on stderr that drops debug records
func DefaultLogger() log.Logger {
	defaultLoggerOnce.Do(func() {
		defaultLogger = NewLogger(os.Stderr, false)
	})
	return defaultLogger
}

// NewLogger returns a logfmt logger with timestamps. Debug records pass only when debug is set.
func NewLogger(w io.Writer, debug bool) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	allow := level.AllowInfo()
	if debug {
		allow = level.AllowDebug()
	}

	return level.NewFilter(logger, allow)
}

func WithLogger(ctx context.Context, logger log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func FromContext(ctx context.Context) log.Logger {
	if logger, ok := ctx.Value(loggerKey).(log.Logger); ok {
		return logger
	}
	return DefaultLogger()
}
