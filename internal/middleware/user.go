package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/taskmasterpro/taskmaster-api/internal/constants"
	apierrors "github.com/taskmasterpro/taskmaster-api/internal/errors"
	"github.com/taskmasterpro/taskmaster-api/internal/repository"
)

// ResolveUser maps the authenticated identity onto the local user row,
// creating the row on first access, and stores the user ID in context.
// Must run after RequireAuth.
func ResolveUser(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := GetIdentity(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var name, avatar *string
		if ident.Name != "" {
			name = &ident.Name
		}
		if ident.Avatar != "" {
			avatar = &ident.Avatar
		}

		user, err := users.FindOrCreateByEmail(ident.Email, name, avatar)
		if err != nil {
			apierrors.InternalError(c, err)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUserEmail, user.Email)
		c.Next()
	}
}

// GetUserID retrieves the resolved local user ID from context.
func GetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
