package middleware

import (
	"github.com/go-authgate/hvgate/internal/util"

	"github.com/gin-gonic/gin"
)

// IPMiddleware copies the client IP onto the request context so services
// that only see a context.Context (audit logging) can record it.
func IPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(util.SetIPContext(c.Request.Context(), c.ClientIP()))
		c.Next()
	}
}
