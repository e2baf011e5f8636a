package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"go-docstore-repo/internal/core/logger"
)

const KeyRequestID = "X-Request-ID"

// RequestID propagates the caller's X-Request-ID or generates one and puts it
// on the request context, where repository logs pick it up. Oversized incoming
// ids are replaced.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get(KeyRequestID)
		if rid == "" || len(rid) > 64 {
			rid = uuid.NewString()
		}
		c.Writer.Header().Set(KeyRequestID, rid)
		c.Set(KeyRequestID, rid)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), rid))
		c.Next()
	}
}
