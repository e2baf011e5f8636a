package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	resp "go-docstore-repo/internal/transport/http/response"
)

// MaxBodyBytes limits request bodies to n bytes.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
		if c.Writer.Written() {
			return
		}
		for _, e := range c.Errors {
			var mbe *http.MaxBytesError
			if errors.As(e.Err, &mbe) {
				c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "request body too large"))
				return
			}
		}
	}
}
