package repo

import (
	"context"
	"time"

	"go.uber.org/zap"

	"go-docstore-repo/internal/domain"
	"go-docstore-repo/internal/errs"
	"go-docstore-repo/internal/feature/page"
	"go-docstore-repo/internal/paging"
	"go-docstore-repo/internal/store"
)

type PageRepo struct {
	crud[domain.Page, page.Model, domain.PageFields]
	pages store.PageStore
}

var _ domain.PageRepository = (*PageRepo)(nil)

func NewPageRepo(st store.PageStore, d Deps) (*PageRepo, error) {
	c, err := newCrud[domain.Page, page.Model, domain.PageFields]("page", st, d, page.Apply, touchPage)
	if err != nil {
		return nil, err
	}
	return &PageRepo{crud: c, pages: st}, nil
}

func touchPage(p *domain.Page, now time.Time) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
}

func (r *PageRepo) FindByID(ctx context.Context, name string) (*domain.Page, error) {
	return r.findByID(ctx, name)
}

func (r *PageRepo) FindByAPI(ctx context.Context, api string) (_ []domain.Page, err error) {
	start := time.Now()
	r.log(ctx).Debug("find pages by api", zap.String("api", api))
	defer func() { err = r.finish(ctx, "find_by_api", start, err) }()

	rows, err := r.pages.FindByAPI(ctx, api)
	if err != nil {
		return nil, r.technical("find_by_api", "an error occurred while trying to find pages by api "+api, err)
	}
	return r.list(rows)
}

func (r *PageRepo) FindPublishedByAPI(ctx context.Context, api string) (_ []domain.Page, err error) {
	start := time.Now()
	r.log(ctx).Debug("find published pages by api", zap.String("api", api))
	defer func() { err = r.finish(ctx, "find_published_by_api", start, err) }()

	rows, err := r.pages.FindPublishedByAPI(ctx, api)
	if err != nil {
		return nil, r.technical("find_published_by_api", "an error occurred while trying to find published pages by api "+api, err)
	}
	return r.list(rows)
}

func (r *PageRepo) FindMaxOrderByAPI(ctx context.Context, api string) (_ int, err error) {
	start := time.Now()
	r.log(ctx).Debug("find max page order by api", zap.String("api", api))
	defer func() { err = r.finish(ctx, "find_max_order_by_api", start, err) }()

	max, err := r.pages.FindMaxOrderByAPI(ctx, api)
	if err != nil {
		return 0, r.technical("find_max_order_by_api", "an error occurred while trying to find max page order by api "+api, err)
	}
	return max, nil
}

func (r *PageRepo) Search(ctx context.Context, p paging.Pageable) (paging.Page[domain.Page], error) {
	return r.search(ctx, p)
}

func (r *PageRepo) Create(ctx context.Context, p *domain.Page) (*domain.Page, error) {
	return r.create(ctx, p)
}

// Update merges the non-zero allow-listed fields of p into the stored page.
func (r *PageRepo) Update(ctx context.Context, p *domain.Page) (*domain.Page, error) {
	if p == nil {
		err := errs.InvalidState("update page", "page must not be nil")
		return nil, r.finish(ctx, "update", time.Now(), err)
	}
	return r.update(ctx, "update", p.Name, r.stamp(p.MutableFields()))
}

// Patch applies exactly the fields set in f, zero values included.
func (r *PageRepo) Patch(ctx context.Context, name string, f domain.PageFields) (*domain.Page, error) {
	return r.update(ctx, "patch", name, r.stamp(f))
}

func (r *PageRepo) stamp(f domain.PageFields) domain.PageFields {
	if f.UpdatedAt == nil {
		now := r.Now()
		f.UpdatedAt = &now
	}
	return f
}

func (r *PageRepo) Delete(ctx context.Context, name string) error {
	return r.delete(ctx, name)
}
