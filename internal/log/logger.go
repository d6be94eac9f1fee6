package log

import (
	"context"

	"github.com/go-logr/logr"
)

// Verbosity levels used with logr's V.
const (
	LevelInfo  = 0
	LevelDebug = 1
	LevelTrace = 2
)

func FromContext(ctx context.Context) logr.Logger {
	return logr.FromContextOrDiscard(ctx)
}

func WithLogger(ctx context.Context, logger logr.Logger) context.Context {
	return logr.NewContext(ctx, logger)
}

// Debug returns the logger in ctx at LevelDebug.
func Debug(ctx context.Context) logr.Logger {
	return FromContext(ctx).V(LevelDebug)
}
