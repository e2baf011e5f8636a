package ez

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-docstore-repo/internal/paging"
)

// Repository is the slice of a domain repository that Crud drives.
type Repository[D, F any] interface {
	FindByID(ctx context.Context, id string) (*D, error)
	Search(ctx context.Context, p paging.Pageable) (paging.Page[D], error)
	Create(ctx context.Context, d *D) (*D, error)
	Update(ctx context.Context, d *D) (*D, error)
	Patch(ctx context.Context, id string, f F) (*D, error)
	Delete(ctx context.Context, id string) error
}

type CrudHooks[D, F any] struct {
	BeforeCreate func(c *gin.Context, d *D) error
	BeforeUpdate func(c *gin.Context, d *D) error
	BeforePatch  func(c *gin.Context, f *F) error
}

// CrudConfig mounts list, get, create, put, patch and delete for one entity
// under Path. V is the rendered shape of D.
type CrudConfig[D, F, V any] struct {
	Path  string
	Param string // path parameter carrying the identifier, default "id"
	Repo  Repository[D, F]
	// SetID forces the path identifier into a PUT body.
	SetID func(d *D, id string)
	View  func(D) V
	Hooks CrudHooks[D, F]
}

type SearchQuery struct {
	Page int    `form:"page"`
	Size int    `form:"size"`
	Sort string `form:"sort"`
}

func (q SearchQuery) Pageable() paging.Pageable {
	return paging.Pageable{PageNumber: q.Page, PageSize: q.Size, Sort: paging.ParseSort(q.Sort)}.Normalize()
}

func Crud[D, F, V any](ez *EZ, cfg CrudConfig[D, F, V]) {
	if cfg.Param == "" {
		cfg.Param = "id"
	}
	item := cfg.Path + "/:" + cfg.Param
	render := func(d *D) V { return cfg.View(*d) }

	RegisterAction(ez, Action[SearchQuery, paging.Page[V]]{
		Method: http.MethodGet,
		Path:   cfg.Path,
		Binder: BindQuery,
		Handler: func(c *gin.Context, in *SearchQuery) (paging.Page[V], error) {
			res, err := cfg.Repo.Search(c.Request.Context(), in.Pageable())
			if err != nil {
				return paging.Page[V]{}, err
			}
			return paging.Convert(res, func(ds []D) ([]V, error) {
				out := make([]V, 0, len(ds))
				for _, d := range ds {
					out = append(out, cfg.View(d))
				}
				return out, nil
			})
		},
	})

	RegisterAction(ez, Action[struct{}, V]{
		Method: http.MethodGet,
		Path:   item,
		Handler: func(c *gin.Context, _ *struct{}) (V, error) {
			var zero V
			d, err := cfg.Repo.FindByID(c.Request.Context(), c.Param(cfg.Param))
			if err != nil {
				return zero, err
			}
			if d == nil {
				return zero, NotFound("not found")
			}
			return render(d), nil
		},
	})

	RegisterAction(ez, Action[D, V]{
		Method: http.MethodPost,
		Path:   cfg.Path,
		Binder: BindJSON,
		Handler: func(c *gin.Context, in *D) (V, error) {
			var zero V
			if cfg.Hooks.BeforeCreate != nil {
				if err := cfg.Hooks.BeforeCreate(c, in); err != nil {
					return zero, err
				}
			}
			d, err := cfg.Repo.Create(c.Request.Context(), in)
			if err != nil {
				return zero, err
			}
			return render(d), nil
		},
	})

	RegisterAction(ez, Action[D, V]{
		Method: http.MethodPut,
		Path:   item,
		Binder: BindJSON,
		Handler: func(c *gin.Context, in *D) (V, error) {
			var zero V
			cfg.SetID(in, c.Param(cfg.Param))
			if cfg.Hooks.BeforeUpdate != nil {
				if err := cfg.Hooks.BeforeUpdate(c, in); err != nil {
					return zero, err
				}
			}
			d, err := cfg.Repo.Update(c.Request.Context(), in)
			if err != nil {
				return zero, err
			}
			return render(d), nil
		},
	})

	RegisterAction(ez, Action[F, V]{
		Method: http.MethodPatch,
		Path:   item,
		Binder: BindJSON,
		Handler: func(c *gin.Context, in *F) (V, error) {
			var zero V
			if cfg.Hooks.BeforePatch != nil {
				if err := cfg.Hooks.BeforePatch(c, in); err != nil {
					return zero, err
				}
			}
			d, err := cfg.Repo.Patch(c.Request.Context(), c.Param(cfg.Param), *in)
			if err != nil {
				return zero, err
			}
			return render(d), nil
		},
	})

	RegisterAction(ez, Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   item,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param(cfg.Param)
			if err := cfg.Repo.Delete(c.Request.Context(), id); err != nil {
				return nil, err
			}
			return gin.H{cfg.Param: id}, nil
		},
	})
}
