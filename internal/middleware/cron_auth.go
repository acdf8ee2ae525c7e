package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/taskmasterpro/taskmaster-api/internal/errors"
)

// RequireCronSecret guards the batch-job endpoints with a shared-secret
// bearer token.
func RequireCronSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")

		if header == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}
