package middleware

import (
	"net/http"
	"strings"

	"github.com/devalvin/storefront-golang/internal/auth"
	"github.com/devalvin/storefront-golang/internal/models"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies the Bearer token and stashes the caller's identity
// in the request context for the handlers downstream.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format (must be Bearer)"})
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("userEmail", claims.Email)
		c.Set("userRole", claims.Role)
		c.Next()
	}
}

// AdminMiddleware must run AFTER AuthMiddleware. It checks the role claim
// carried on the token, so admin routes never need a second user lookup.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role_raw, exists := c.Get("userRole")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found in context (AuthMiddleware must run first)"})
			c.Abort()
			return
		}

		if role_raw.(string) != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: admin role required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
