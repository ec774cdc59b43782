package middleware

import (
	"context"

	"github.com/SscSPs/exchange_office_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// Keys for the authenticated principal. Using a custom type prevents collisions.
const (
	userIDKey   = contextKey("userID")
	usernameKey = contextKey("username")
	roleKey     = contextKey("role")
)

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, userID, username string, role domain.UserRole) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, usernameKey, username)
	return context.WithValue(ctx, roleKey, role)
}

// GetUserIDFromContext retrieves the authenticated user ID.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userID, ok := c.Request.Context().Value(userIDKey).(string); ok && userID != "" {
		return userID, true
	}
	return "", false
}

// GetRoleFromContext retrieves the role claimed by the session token.
func GetRoleFromContext(c *gin.Context) (domain.UserRole, bool) {
	role, ok := c.Request.Context().Value(roleKey).(domain.UserRole)
	return role, ok
}

// GetUsernameFromContext retrieves the username claimed by the session token.
func GetUsernameFromContext(c *gin.Context) (string, bool) {
	username, ok := c.Request.Context().Value(usernameKey).(string)
	return username, ok
}
