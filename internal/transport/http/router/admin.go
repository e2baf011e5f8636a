package router

import (
	"github.com/gin-gonic/gin"

	"go-docstore-repo/internal/core/auth"
	mdw "go-docstore-repo/internal/transport/http/middleware"
)

// NewAdminEngine serves the management API under /admin/v1; every route
// requires a token with the admin role.
func NewAdminEngine(o Options, jwter *auth.JWTer, mods *Registry) *gin.Engine {
	r := newEngine(o)
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, auth.RoleAdmin))
	mods.MountAdmin(admin)
	return r
}
