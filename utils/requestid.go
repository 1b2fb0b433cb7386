package utils

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey int

const requestIDKey ctxKey = iota

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, ok := ctx.Value(requestIDKey).(string)
	if !ok {
		return ""
	}
	return id
}

// LoggerFromContext tags log with the request id carried by ctx, if any.
func LoggerFromContext(ctx context.Context, log *zap.Logger) *zap.Logger {
	if id := RequestIDFromContext(ctx); id != "" {
		return log.With(zap.String("request_id", id))
	}
	return log
}
