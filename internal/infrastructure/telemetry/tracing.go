package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the tracer used by infrastructure spans.
const TracerName = "github.com/erp/posting/infrastructure"

// Attribute keys shared by spans and posting metrics
var (
	AttrDocumentKind = attribute.Key("document.kind")
	AttrErrorCode    = attribute.Key("error.code")
	AttrSeverity     = attribute.Key("alert.severity")
	AttrEventType    = attribute.Key("event.type")
)

// StartSpan starts an internal span on the global provider. The caller must End it.
//
//	ctx, span := telemetry.StartSpan(ctx, "outbox.dispatch", telemetry.AttrEventType.String(t))
//	defer span.End()
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	opts := []trace.SpanStartOption{trace.WithSpanKind(trace.SpanKindInternal)}
	if len(attrs) > 0 {
		opts = append(opts, trace.WithAttributes(attrs...))
	}
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, name, opts...)
}

// RecordError records err on span and marks the span failed. A nil err is ignored.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
