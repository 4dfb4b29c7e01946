// Package middleware provides the HTTP middleware chain: request
// identity, auth, tenant resolution, permissions, limits, and
// observability.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/retailpos/backend/internal/infrastructure/telemetry"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// DefaultTracingConfig returns the default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "retailpos-backend",
		Enabled:     true,
	}
}

// Tracing returns OpenTelemetry tracing middleware with defaults.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig wraps otelgin and enriches the server span with
// request, tenant, staff, and branch identity. Span names follow the
// otelgin pattern "METHOD route" (e.g. "POST /api/v1/sales").
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	base := otelgin.Middleware(cfg.ServiceName)

	return func(c *gin.Context) {
		base(c)

		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			enrichSpan(c, span)
		}
	}
}

func enrichSpan(c *gin.Context, span trace.Span) {
	if requestID := c.GetString(RequestIDKey); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
	}

	// Tenant from JWT claims, falling back to a validated header value
	// for the unauthenticated surfaces.
	tenantID := GetJWTTenantID(c)
	if tenantID == "" {
		if header := c.GetHeader(TenantHeaderKey); header != "" {
			if _, err := uuid.Parse(header); err == nil {
				tenantID = header
			}
		}
	}
	if tenantID != "" {
		span.SetAttributes(attribute.String(telemetry.SpanAttrTenantID, tenantID))
	}

	if userID := GetJWTUserID(c); userID != "" {
		span.SetAttributes(attribute.String(telemetry.SpanAttrStaffID, userID))
	}
	if role := GetJWTRole(c); role != "" {
		span.SetAttributes(attribute.String(telemetry.SpanAttrStaffRole, role))
	}
	if branchID := GetJWTBranchID(c); branchID != "" {
		span.SetAttributes(attribute.String(telemetry.SpanAttrBranchID, branchID))
	}
}

// SpanErrorMarker marks the server span with error status for 4xx/5xx
// responses. Place it after Tracing in the chain.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		statusCode := c.Writer.Status()
		if statusCode < http.StatusBadRequest {
			return
		}

		span.SetStatus(codes.Error, http.StatusText(statusCode))
		span.SetAttributes(attribute.Int("http.status_code", statusCode))
	}
}

// TracingAttributeInjector re-enriches the span after the auth and
// tenant middleware have run, so identity attributes land on spans
// even though Tracing sits earlier in the chain.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			enrichSpan(c, span)
		}
		c.Next()
	}
}
