package middleware

import (
	"github.com/gin-gonic/gin"

	"book-catalog-service/pkg/logger"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestID propagates the caller's X-Request-ID or assigns a new one, and stores
// it in the request context for logging.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		incoming := c.GetHeader(RequestIDHeader)
		if len(incoming) > 128 {
			incoming = ""
		}

		ctx, id := logger.ContextWithRequestID(c.Request.Context(), incoming)
		c.Request = c.Request.WithContext(ctx)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
