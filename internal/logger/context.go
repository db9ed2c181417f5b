package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	loggerKey    ctxKey = "logger"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// WithContext stores a request-scoped logger.
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromCtx returns the request-scoped logger, falling back to base.
// The request id is attached when known.
func FromCtx(ctx context.Context, base *zap.Logger) *zap.Logger {
	l, ok := ctx.Value(loggerKey).(*zap.Logger)
	if !ok {
		if base == nil {
			return zap.NewNop()
		}
		l = base
		if reqID := RequestIDFrom(ctx); reqID != "" {
			l = l.With(zap.String("request_id", reqID))
		}
	}
	return l
}
