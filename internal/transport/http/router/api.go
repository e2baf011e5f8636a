package router

import (
	"github.com/gin-gonic/gin"
)

// NewAPIEngine serves the public read API under /api/v1.
func NewAPIEngine(o Options, mods *Registry) *gin.Engine {
	r := newEngine(o)
	mods.MountAPI(r.Group("/api/v1"))
	return r
}
