package middleware

import (
	"net/http"
	"strings"

	"farm-shop/models"
	"farm-shop/utils"

	"github.com/gin-gonic/gin"
)

const (
	adminIDKey    = "admin_id"
	adminEmailKey = "admin_email"
	adminRoleKey  = "admin_role"
)

func deny(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{Success: false, Message: message})
}

// AuthMiddleware verifies a "Bearer <token>" header signed with secret and
// stores the claims on the context. Shoppers never pass through it.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			deny(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			deny(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := utils.ValidateToken(secret, strings.TrimSpace(token))
		if err != nil {
			deny(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(adminIDKey, claims.UserID)
		c.Set(adminEmailKey, claims.Email)
		c.Set(adminRoleKey, claims.Role)
		c.Next()
	}
}

// AdminMiddleware runs after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(adminRoleKey) != models.RoleAdmin {
			deny(c, http.StatusForbidden, "Access denied. Admin role required")
			return
		}
		c.Next()
	}
}

// AdminEmail is the authenticated account, or "" outside the admin group.
func AdminEmail(c *gin.Context) string {
	return c.GetString(adminEmailKey)
}
