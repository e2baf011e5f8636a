package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	resp "go-docstore-repo/internal/transport/http/response"
)

// Timeout bounds the request context; store calls observe it. An expired
// request is recorded on c.Errors so the access log reports it.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return
		}
		_ = c.Error(ctx.Err())
		if !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeTimeout, "timeout"))
		}
	}
}
