package middleware

import (
	"net/http"

	"github.com/erp/posting/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing wraps otelgin. The server span is named after the route pattern and carries the
// request id. Disabled tracing returns a pass-through handler.
func Tracing(serviceName string, enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return otelgin.Middleware(serviceName)
}

// SpanEnricher adds request and scope attributes to the active span and marks 5xx responses
// as errors. It must run after Tracing and ScopeMiddleware.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if id := logger.RequestID(c.Request.Context()); id != "" {
				span.SetAttributes(attribute.String("request_id", id))
			}
			if scope, ok := GetScope(c); ok {
				span.SetAttributes(
					attribute.String("tenant_id", scope.TenantID.String()),
					attribute.String("company_id", scope.CompanyID.String()),
				)
			}
		}

		c.Next()

		if span.IsRecording() && c.Writer.Status() >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(c.Writer.Status()))
		}
	}
}
