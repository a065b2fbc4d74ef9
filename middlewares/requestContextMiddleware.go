package middlewares

import (
	"strconv"

	"github.com/aurifex/jewelry_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestContextMiddleware seeds the request context with the caller
// identity headers and a correlation id. A missing X-Correlation-Id gets a
// fresh uuid so downstream logs and events always line up.
func RequestContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if userIdHeader := c.Request.Header.Get("X-User-Id"); userIdHeader != "" {
			if userId, err := strconv.Atoi(userIdHeader); err == nil {
				ctx = utils.SetUserIdInContext(ctx, userId)
			}
		}
		if userName := c.Request.Header.Get("X-User-Name"); userName != "" {
			ctx = utils.SetUserNameInContext(ctx, userName)
		}

		correlationId := c.Request.Header.Get("X-Correlation-Id")
		if correlationId == "" {
			correlationId = uuid.NewString()
		}
		ctx = utils.SetCorrelationIdInContext(ctx, correlationId)
		c.Header("X-Correlation-Id", correlationId)

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
