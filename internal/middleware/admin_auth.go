// Package middleware holds gin middleware shared by CrossFund's HTTP
// surface: admin bearer-token auth, CORS, and IP allowlisting. Grounded
// on the teacher's internal/middleware package of the same name.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"crossfund/internal/admin"
)

// AdminAuth gates routes behind a valid admin JWT issued by internal/admin.
type AdminAuth struct {
	auth   *admin.Auth
	logger *logrus.Logger
}

func NewAdminAuth(auth *admin.Auth, logger *logrus.Logger) *AdminAuth {
	return &AdminAuth{auth: auth, logger: logger}
}

// RequireAdmin rejects requests without a valid "Bearer <jwt>" Authorization
// header carrying the admin role.
func (a *AdminAuth) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			a.reject(c, http.StatusUnauthorized, "MISSING_AUTH_HEADER", "authentication required")
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			a.reject(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "authorization header must be: Bearer <token>")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			a.reject(c, http.StatusUnauthorized, "EMPTY_TOKEN", "empty token")
			return
		}

		claims, err := a.auth.ValidateToken(tokenString)
		if err != nil {
			a.logger.WithFields(logrus.Fields{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			}).Warn("admin auth failed - invalid token")
			a.reject(c, http.StatusUnauthorized, "INVALID_TOKEN", "invalid or expired token")
			return
		}
		if claims.Role != "admin" {
			a.reject(c, http.StatusForbidden, "INSUFFICIENT_PERMISSIONS", "insufficient permissions")
			return
		}

		c.Set("admin_username", claims.Username)
		c.Next()
	}
}

func (a *AdminAuth) reject(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   message,
		"code":    code,
	})
}
