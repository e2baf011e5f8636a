package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-docstore-repo/internal/domain"
	httpez "go-docstore-repo/internal/transport/http/ez"
)

type Pages struct {
	Repo domain.PageRepository
	Log  *zap.Logger
}

func (Pages) Priority() int { return 10 }

func (m Pages) MountAPI(g *gin.RouterGroup) {
	ez := httpez.New(g, m.Log)

	httpez.RegisterAction(ez, httpez.Action[struct{}, domain.Page]{
		Method: http.MethodGet,
		Path:   "/pages/:name",
		Handler: func(c *gin.Context, _ *struct{}) (domain.Page, error) {
			p, err := m.Repo.FindByID(c.Request.Context(), c.Param("name"))
			if err != nil {
				return domain.Page{}, err
			}
			if p == nil {
				return domain.Page{}, httpez.NotFound("page not found")
			}
			return *p, nil
		},
	})

	type byAPIQuery struct {
		Published bool `form:"published"`
	}
	httpez.RegisterAction(ez, httpez.Action[byAPIQuery, []domain.Page]{
		Method: http.MethodGet,
		Path:   "/apis/:api/pages",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *byAPIQuery) ([]domain.Page, error) {
			if in.Published {
				return m.Repo.FindPublishedByAPI(c.Request.Context(), c.Param("api"))
			}
			return m.Repo.FindByAPI(c.Request.Context(), c.Param("api"))
		},
	})

	type maxOrderOut struct {
		API      string `json:"api"`
		MaxOrder int    `json:"maxOrder"`
	}
	httpez.RegisterAction(ez, httpez.Action[struct{}, maxOrderOut]{
		Method: http.MethodGet,
		Path:   "/apis/:api/pages/max-order",
		Handler: func(c *gin.Context, _ *struct{}) (maxOrderOut, error) {
			n, err := m.Repo.FindMaxOrderByAPI(c.Request.Context(), c.Param("api"))
			if err != nil {
				return maxOrderOut{}, err
			}
			return maxOrderOut{API: c.Param("api"), MaxOrder: n}, nil
		},
	})
}

func (m Pages) MountAdmin(g *gin.RouterGroup) {
	checkType := func(_ *gin.Context, p *domain.Page) error {
		t, err := domain.ParsePageType(string(p.Type))
		if err != nil {
			return httpez.BadRequest(err.Error())
		}
		p.Type = t
		return nil
	}
	httpez.Crud(httpez.New(g, m.Log), httpez.CrudConfig[domain.Page, domain.PageFields, domain.Page]{
		Path:  "/pages",
		Param: "name",
		Repo:  m.Repo,
		SetID: func(p *domain.Page, name string) { p.Name = name },
		View:  func(p domain.Page) domain.Page { return p },
		Hooks: httpez.CrudHooks[domain.Page, domain.PageFields]{
			BeforeCreate: checkType,
			BeforeUpdate: checkType,
			BeforePatch: func(_ *gin.Context, f *domain.PageFields) error {
				if f.Type == nil {
					return nil
				}
				t, err := domain.ParsePageType(string(*f.Type))
				if err != nil {
					return httpez.BadRequest(err.Error())
				}
				f.Type = &t
				return nil
			},
		},
	})
}
