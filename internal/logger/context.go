package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// ToContext returns a copy of ctx carrying l.
func ToContext(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored in ctx, or the global logger.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.SugaredLogger); ok && l != nil {
			return l
		}
	}

	return global
}

// WithName returns ctx with a logger named after the component.
// Names nest: WithName(WithName(ctx, "a"), "b") logs as "a.b".
func WithName(ctx context.Context, name string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return ToContext(ctx, FromContext(ctx).Named(name))
}

// WithKV returns ctx with a logger that always includes the given fields.
func WithKV(ctx context.Context, kvs ...any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return ToContext(ctx, FromContext(ctx).With(kvs...))
}
