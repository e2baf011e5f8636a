package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-docstore-repo/internal/core/metrics"
	"go-docstore-repo/internal/core/server"
	mdw "go-docstore-repo/internal/transport/http/middleware"
)

type Options struct {
	Log     *zap.Logger
	Metrics *metrics.HTTP
	// Gatherer, when set, is served on GET /metrics.
	Gatherer prometheus.Gatherer
	// Health is probed by GET /health; nil always reports healthy.
	Health func(ctx context.Context) error
}

func newEngine(o Options) *gin.Engine {
	if o.Log == nil {
		o.Log = zap.NewNop()
	}
	r := server.NewRouter(o.Log)
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.RateLimitPerIP(50, 100),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.Recovery(o.Log),
		mdw.Metrics(o.Metrics),
		mdw.AccessLog(o.Log),
	)

	r.GET("/health", func(c *gin.Context) {
		if o.Health != nil {
			if err := o.Health(c.Request.Context()); err != nil {
				o.Log.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"ok": 0})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"ok": 1})
	})
	if o.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(o.Gatherer, promhttp.HandlerOpts{})))
	}
	return r
}
