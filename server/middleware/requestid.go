package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the correlation id between client and server.
	RequestIDHeader = "X-Request-Id"
	// RequestIDKey is the gin context key the request logger reads.
	RequestIDKey = "request_id"
)

// RequestID tags every request with a correlation id. A client-supplied
// X-Request-Id is kept as-is so ids stay stable across service hops;
// otherwise a fresh UUID is assigned. The id is echoed in the response and
// attached to the request log line.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
