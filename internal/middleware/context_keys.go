package middleware

import (
	"context"

	"github.com/SscSPs/admission_workflow_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// contextKey is a custom type for context keys so they cannot collide with other packages.
type contextKey string

const (
	userIDKey    = contextKey("userID")
	userRoleKey  = contextKey("userRole")
	loggerCtxKey = contextKey("logger")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(userIDKey)); exists {
		userID, ok := v.(string)
		return userID, ok
	}
	// check in the request context as well
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	return userID, ok
}

// GetActorFromContext returns the authenticated user together with the role taken from the token.
func GetActorFromContext(c *gin.Context) (domain.Actor, bool) {
	userID, ok := GetUserIDFromContext(c)
	if !ok || userID == "" {
		return domain.Actor{}, false
	}
	role, _ := c.Request.Context().Value(userRoleKey).(domain.ActorRole)
	if role == "" {
		role = domain.ActorApplicant
	}
	return domain.Actor{UserID: userID, Role: role}, true
}

// WithActor stores an actor in ctx the same way the auth middleware does.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	ctx = context.WithValue(ctx, userIDKey, actor.UserID)
	return context.WithValue(ctx, userRoleKey, actor.Role)
}
