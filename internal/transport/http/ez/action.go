// Package ez registers typed gin handlers that speak the response envelope.
package ez

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-docstore-repo/internal/core/auth"
	mdw "go-docstore-repo/internal/transport/http/middleware"
	resp "go-docstore-repo/internal/transport/http/response"
)

type Binder int

const (
	BindNone Binder = iota
	BindJSON
	BindQuery
)

// Action is one typed endpoint. Roles, when set, restrict it to tokens
// carrying one of them.
type Action[I, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Roles   []string
	Handler func(c *gin.Context, in *I) (O, error)
}

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, log *zap.Logger) *EZ {
	if log == nil {
		log = zap.NewNop()
	}
	return &EZ{g: g, log: log}
}

func RegisterAction[I, O any](ez *EZ, a Action[I, O]) {
	ez.g.Handle(a.Method, a.Path, func(c *gin.Context) {
		if len(a.Roles) > 0 {
			claims, _ := c.Get(mdw.KeyClaims)
			cl, ok := claims.(*auth.Claims)
			if !ok {
				c.JSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "unauthorized"))
				return
			}
			if !slices.Contains(a.Roles, cl.Role) {
				c.JSON(http.StatusOK, resp.Error(resp.CodeForbidden, "forbidden"))
				return
			}
		}

		var in I
		var err error
		switch a.Binder {
		case BindJSON:
			err = c.ShouldBindJSON(&in)
		case BindQuery:
			err = c.ShouldBindQuery(&in)
		}
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			ez.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	})
}

// Fail writes the envelope for err. Server-side failures are logged with
// their cause and answered with a generic message.
func (ez *EZ) Fail(c *gin.Context, err error) {
	code, msg := Classify(err)
	if code >= resp.CodeServerError {
		ez.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(http.StatusOK, resp.Error(code, msg))
}
