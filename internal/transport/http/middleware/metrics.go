package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go-docstore-repo/internal/core/metrics"
)

// Metrics records request counts and latency by route. A nil m disables it.
func Metrics(m *metrics.HTTP) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.Requests.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.Latency.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
