package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/coffeebase/coffeebase-api/internal/apperr"
	"github.com/coffeebase/coffeebase-api/internal/httpx"
)

const (
	ctxUserID = "userID"
	ctxRole   = "role"
)

const (
	RoleCustomer   = "customer"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

func IsAdminRole(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}

// RequireAuth parses the Bearer token and stores the caller's identity in the
// request context.
func RequireAuth(tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			httpx.AbortError(c, apperr.New(apperr.KindAuthentication, "Authorization header required"))
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httpx.AbortError(c, apperr.New(apperr.KindAuthentication, "Invalid authorization header format"))
			return
		}
		claims, err := tokens.Validate(parts[1])
		if err != nil {
			httpx.AbortError(c, err)
			return
		}
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdminRole(c.GetString(ctxRole)) {
			httpx.AbortError(c, apperr.New(apperr.KindAuthorization, "Access denied. Admin privileges required."))
			return
		}
		c.Next()
	}
}

// Caller returns the authenticated user id and role set by RequireAuth.
func Caller(c *gin.Context) (userID, role string) {
	return c.GetString(ctxUserID), c.GetString(ctxRole)
}
