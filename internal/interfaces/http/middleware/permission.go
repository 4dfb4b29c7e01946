package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	identityapp "github.com/retailpos/backend/internal/application/identity"
	"github.com/retailpos/backend/internal/domain/identity"
)

// PermissionConfig holds configuration for the permission middleware.
type PermissionConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when a permission check fails (optional)
	OnDenied func(c *gin.Context, required []identityapp.Permission)
}

// RequirePermission creates middleware that requires a single permission.
// Permissions are derived from the staff role carried in the access token,
// so no extra lookup is needed per request.
func RequirePermission(permission identityapp.Permission) gin.HandlerFunc {
	return RequireAnyPermission(permission)
}

// RequirePermissionWithConfig creates middleware with custom config.
func RequirePermissionWithConfig(permission identityapp.Permission, cfg PermissionConfig) gin.HandlerFunc {
	return RequireAnyPermissionWithConfig(cfg, permission)
}

// RequireAnyPermission creates middleware that passes when the staff
// role holds at least one of the listed permissions.
func RequireAnyPermission(permissions ...identityapp.Permission) gin.HandlerFunc {
	return RequireAnyPermissionWithConfig(PermissionConfig{}, permissions...)
}

// RequireAnyPermissionWithConfig creates middleware that requires any of
// the listed permissions with custom config.
func RequireAnyPermissionWithConfig(cfg PermissionConfig, permissions ...identityapp.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := roleFromContext(c)
		if !ok {
			handlePermissionDenied(c, cfg, permissions, "No authenticated staff role found")
			return
		}

		granted := false
		for _, p := range permissions {
			if identityapp.RoleCan(role, p) {
				granted = true
				break
			}
		}
		if !granted {
			handlePermissionDenied(c, cfg, permissions, "Staff role lacks required permission")
			return
		}

		if cfg.Logger != nil {
			cfg.Logger.Debug("Permission check passed",
				zap.String("user_id", GetJWTUserID(c)),
				zap.String("role", string(role)),
			)
		}

		c.Next()
	}
}

// RequireAllPermissions creates middleware that passes only when the
// staff role holds every listed permission.
func RequireAllPermissions(permissions ...identityapp.Permission) gin.HandlerFunc {
	return RequireAllPermissionsWithConfig(PermissionConfig{}, permissions...)
}

// RequireAllPermissionsWithConfig creates middleware that requires all
// permissions with custom config.
func RequireAllPermissionsWithConfig(cfg PermissionConfig, permissions ...identityapp.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := roleFromContext(c)
		if !ok {
			handlePermissionDenied(c, cfg, permissions, "No authenticated staff role found")
			return
		}

		for _, p := range permissions {
			if !identityapp.RoleCan(role, p) {
				handlePermissionDenied(c, cfg, permissions, "Staff role lacks one or more required permissions")
				return
			}
		}

		if cfg.Logger != nil {
			cfg.Logger.Debug("All permissions check passed",
				zap.String("user_id", GetJWTUserID(c)),
				zap.String("role", string(role)),
			)
		}

		c.Next()
	}
}

// RequireRole creates middleware that passes only for the listed staff
// roles. Prefer permission checks for business operations; role checks
// are for surfaces that are inherently tied to a role, such as tenant
// administration.
func RequireRole(roles ...identity.StaffRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := roleFromContext(c)
		if !ok {
			handleRoleDenied(c, "No authenticated staff role found")
			return
		}

		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		handleRoleDenied(c, "Staff role is not permitted for this operation")
	}
}

func roleFromContext(c *gin.Context) (identity.StaffRole, bool) {
	raw := GetJWTRole(c)
	if raw == "" {
		return "", false
	}
	role := identity.StaffRole(raw)
	if !role.IsValid() {
		return "", false
	}
	return role, true
}

func handlePermissionDenied(c *gin.Context, cfg PermissionConfig, required []identityapp.Permission, reason string) {
	if cfg.Logger != nil {
		names := make([]string, len(required))
		for i, p := range required {
			names[i] = string(p)
		}
		cfg.Logger.Warn("Permission denied",
			zap.String("user_id", GetJWTUserID(c)),
			zap.String("role", GetJWTRole(c)),
			zap.Strings("required", names),
			zap.String("reason", reason),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
	}

	if cfg.OnDenied != nil {
		cfg.OnDenied(c, required)
		return
	}

	abortForbidden(c)
}

func handleRoleDenied(c *gin.Context, reason string) {
	_ = reason
	abortForbidden(c)
}

func abortForbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "FORBIDDEN",
			"message": "You do not have permission to perform this action",
		},
	})
}
