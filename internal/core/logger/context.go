package logger

import (
	"context"

	"go.uber.org/zap"
)

type ridKey struct{}

// WithRequestID attaches a request id that For picks up further down the call chain.
func WithRequestID(ctx context.Context, rid string) context.Context {
	if rid == "" {
		return ctx
	}
	return context.WithValue(ctx, ridKey{}, rid)
}

func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	rid, _ := ctx.Value(ridKey{}).(string)
	return rid
}

// For returns l tagged with the request id carried by ctx, or l itself.
func For(ctx context.Context, l *zap.Logger) *zap.Logger {
	if rid := RequestID(ctx); rid != "" {
		return l.With(zap.String("request_id", rid))
	}
	return l
}
