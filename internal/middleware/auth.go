package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/taskmasterpro/taskmaster-api/internal/errors"
	"github.com/taskmasterpro/taskmaster-api/internal/identity"
)

const contextKeyIdentity = "identity"

// RequireAuth validates the bearer token against the identity provider
// and stores the resolved identity in the request context. The local
// user row is resolved by handlers, since some endpoints create it
// lazily while others 404.
func RequireAuth(provider identity.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		ident, err := provider.Verify(token)
		if err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(contextKeyIdentity, ident)
		c.Next()
	}
}

// GetIdentity retrieves the authenticated identity from context.
func GetIdentity(c *gin.Context) (*identity.Identity, bool) {
	v, exists := c.Get(contextKeyIdentity)
	if !exists {
		return nil, false
	}
	ident, ok := v.(*identity.Identity)
	return ident, ok
}
