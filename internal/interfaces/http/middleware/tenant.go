package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/infrastructure/logger"
)

// Tenant context keys
const (
	TenantIDKey     = "tenant_id"
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantGate checks whether a tenant is allowed to serve requests.
// Implementations should be cheap per call (cached), as this runs on
// every authenticated request.
type TenantGate interface {
	// CheckTenant returns nil when the tenant may operate. A non-nil
	// error means the tenant is suspended, expired, or unknown.
	CheckTenant(ctx context.Context, tenantID uuid.UUID) error
}

// TenantMiddlewareConfig holds configuration for the tenant middleware.
type TenantMiddlewareConfig struct {
	// HeaderEnabled allows X-Tenant-ID header extraction as a fallback
	// when no JWT claim is present. Intended for service-to-service
	// calls; browser traffic always carries a token.
	HeaderEnabled bool
	// SkipPaths are paths that don't require tenant context
	SkipPaths []string
	// Required determines whether missing tenant context aborts the request
	Required bool
	// Gate optionally rejects suspended or expired tenants
	Gate TenantGate
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultTenantConfig returns the default tenant middleware configuration.
func DefaultTenantConfig() TenantMiddlewareConfig {
	return TenantMiddlewareConfig{
		HeaderEnabled: true,
		SkipPaths: []string{
			"/health", "/healthz", "/ready", "/metrics",
			"/api/v1/health",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/tenants/register",
		},
		Required: true,
	}
}

// TenantMiddleware resolves the tenant for the request, preferring the
// JWT claim set by the auth middleware over the X-Tenant-ID header.
func TenantMiddleware() gin.HandlerFunc {
	return TenantMiddlewareWithConfig(DefaultTenantConfig())
}

// TenantMiddlewareWithConfig returns tenant middleware with custom configuration.
func TenantMiddlewareWithConfig(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		tenantID := GetJWTTenantID(c)
		source := "jwt"
		if tenantID == "" && cfg.HeaderEnabled {
			tenantID = c.GetHeader(TenantHeaderKey)
			source = "header"
		}

		if tenantID == "" {
			if cfg.Required {
				respondTenantError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Tenant identification required")
				return
			}
			c.Next()
			return
		}

		tenantUUID, err := uuid.Parse(tenantID)
		if err != nil {
			respondTenantError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid tenant identifier")
			return
		}

		if cfg.Gate != nil {
			if err := cfg.Gate.CheckTenant(c.Request.Context(), tenantUUID); err != nil {
				log := cfg.Logger
				if log == nil {
					log = logger.FromContext(c.Request.Context())
				}
				log.Warn("Tenant rejected",
					zap.String("tenant_id", tenantID),
					zap.String("source", source),
					zap.Error(err),
				)
				respondTenantError(c, http.StatusForbidden, "TENANT_SUSPENDED", "Tenant account is not active")
				return
			}
		}

		c.Set(TenantIDKey, tenantID)

		// Propagate to the request context so service-layer logs carry
		// the tenant without handlers threading it explicitly.
		ctx := c.Request.Context()
		ctx, _ = logger.WithTenantID(ctx, logger.FromContext(ctx), tenantID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func respondTenantError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// GetTenantID retrieves the tenant ID from gin.Context.
func GetTenantID(c *gin.Context) string {
	return c.GetString(TenantIDKey)
}

// GetTenantUUID retrieves the tenant ID as a UUID from gin.Context.
func GetTenantUUID(c *gin.Context) (uuid.UUID, error) {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(tenantID)
}

// MustGetTenantUUID retrieves the tenant ID as a UUID or panics. Only
// for handlers behind the tenant middleware with Required set.
func MustGetTenantUUID(c *gin.Context) uuid.UUID {
	tenantUUID, err := GetTenantUUID(c)
	if err != nil || tenantUUID == uuid.Nil {
		panic("valid tenant_id not found in context")
	}
	return tenantUUID
}

// OptionalTenantMiddleware resolves tenant context when present but
// does not require it.
func OptionalTenantMiddleware() gin.HandlerFunc {
	cfg := DefaultTenantConfig()
	cfg.Required = false
	return TenantMiddlewareWithConfig(cfg)
}
