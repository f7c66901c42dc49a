package logger

import (
	"context"

	"github.com/erp/posting/internal/domain/shared"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type (
	loggerKey    struct{}
	requestIDKey struct{}
	scopeKey     struct{}
)

func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext returns the logger stored by WithContext, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}

// WithRequestID stores id and a logger tagged with it
func WithRequestID(ctx context.Context, l *zap.Logger, id string) (context.Context, *zap.Logger) {
	l = l.With(zap.String("request_id", id))
	return WithContext(context.WithValue(ctx, requestIDKey{}, id), l), l
}

// WithScope stores scope and a logger tagged with its tenant and company
func WithScope(ctx context.Context, l *zap.Logger, scope shared.Scope) (context.Context, *zap.Logger) {
	l = l.With(ScopeFields(scope)...)
	return WithContext(context.WithValue(ctx, scopeKey{}, scope), l), l
}

func ScopeFields(scope shared.Scope) []zap.Field {
	return []zap.Field{
		zap.Stringer("tenant_id", scope.TenantID),
		zap.Stringer("company_id", scope.CompanyID),
	}
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func ScopeFrom(ctx context.Context) (shared.Scope, bool) {
	scope, ok := ctx.Value(scopeKey{}).(shared.Scope)
	return scope, ok
}

// TraceID is the hex id of the span in ctx, empty without a valid span
func TraceID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

// L is the context logger tagged with the trace and span of ctx when there is one.
//
//	logger.L(ctx).Info("document posted", zap.String("reference_no", no))
func L(ctx context.Context) *zap.Logger {
	l := FromContext(ctx)
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return l.With(
		zap.Stringer("trace_id", sc.TraceID()),
		zap.Stringer("span_id", sc.SpanID()),
	)
}
