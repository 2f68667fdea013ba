package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// HeaderRequestID is the inbound/outbound correlation header.
	HeaderRequestID = "X-Request-ID"

	// ContextKeyRequestID is where the id lands in the gin context.
	ContextKeyRequestID = "request_id"
)

// RequestID assigns each request a correlation id, honoring one supplied by
// the caller.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(ContextKeyRequestID, id)
		c.Writer.Header().Set(HeaderRequestID, id)

		c.Next()
	}
}
