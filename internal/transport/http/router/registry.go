package router

import (
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
)

// APIModule mounts public read routes under /api/v1; AdminModule mounts
// management routes under /admin/v1. A module may implement both.
type APIModule interface{ MountAPI(*gin.RouterGroup) }
type AdminModule interface{ MountAdmin(*gin.RouterGroup) }

// Modules with lower priority mount first; the default is 100.
type prioritizer interface{ Priority() int }

type Registry struct {
	mu    sync.RWMutex
	api   []APIModule
	admin []AdminModule
}

// Register files mod under every module kind it implements.
func (r *Registry) Register(mod any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := mod.(APIModule); ok {
		r.api = append(r.api, m)
	}
	if m, ok := mod.(AdminModule); ok {
		r.admin = append(r.admin, m)
	}
}

func (r *Registry) MountAPI(g *gin.RouterGroup) {
	r.mu.RLock()
	mods := append([]APIModule(nil), r.api...)
	r.mu.RUnlock()

	sort.SliceStable(mods, func(i, j int) bool { return priorityOf(mods[i]) < priorityOf(mods[j]) })
	for _, m := range mods {
		m.MountAPI(g)
	}
}

func (r *Registry) MountAdmin(g *gin.RouterGroup) {
	r.mu.RLock()
	mods := append([]AdminModule(nil), r.admin...)
	r.mu.RUnlock()

	sort.SliceStable(mods, func(i, j int) bool { return priorityOf(mods[i]) < priorityOf(mods[j]) })
	for _, m := range mods {
		m.MountAdmin(g)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
