package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	resp "go-docstore-repo/internal/transport/http/response"
)

// ConcurrencyLimit caps in-flight requests so the store backend is not flooded.
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if err := sem.Acquire(c.Request.Context(), 1); err != nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeTooManyRequests, "server busy"))
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
