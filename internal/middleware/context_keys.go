package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/warinco/ncr_workflow_app/internal/core/domain"
)

// contextKey is a private type for context keys defined by this package.
// Using a custom type prevents collisions.
type contextKey string

const (
	// loggerCtxKey is the key under which the request-scoped logger is stored.
	loggerCtxKey = contextKey("logger")

	// userIDKey is the key under which the authenticated user's ID is stored.
	userIDKey = contextKey("userID")

	// userRoleKey is the key under which the authenticated user's role is stored.
	userRoleKey = contextKey("userRole")
)

// GetUserIDFromContext retrieves the authenticated user ID from the request
// context. It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal := c.Request.Context().Value(userIDKey)
	if userIDVal == nil {
		return "", false
	}
	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}
	return userID, true
}

// GetUserRoleFromContext retrieves the authenticated user's role from the
// request context.
func GetUserRoleFromContext(c *gin.Context) (domain.Role, bool) {
	roleVal := c.Request.Context().Value(userRoleKey)
	if roleVal == nil {
		return "", false
	}
	role, ok := roleVal.(domain.Role)
	if !ok {
		return "", false
	}
	return role, true
}
