package repo

import (
	"context"
	"time"

	"go-docstore-repo/internal/core/cache"
	"go-docstore-repo/internal/domain"
)

// CachedPageRepo serves FindByID through the cache and drops the entry on
// every write to the same page. Misses are cached only when opts carry
// cache.WithMissTTL; a later Create evicts them.
type CachedPageRepo struct {
	domain.PageRepository
	byID *cache.JSON[domain.Page]
}

func NewCachedPageRepo(next domain.PageRepository, c *cache.Cache, ttl time.Duration, opts ...cache.Option) *CachedPageRepo {
	return &CachedPageRepo{PageRepository: next, byID: cache.NewJSON[domain.Page](c, "page:", ttl, opts...)}
}

func (r *CachedPageRepo) FindByID(ctx context.Context, name string) (*domain.Page, error) {
	return r.byID.Get(ctx, name, func(ctx context.Context) (*domain.Page, error) {
		return r.PageRepository.FindByID(ctx, name)
	})
}

func (r *CachedPageRepo) Create(ctx context.Context, p *domain.Page) (*domain.Page, error) {
	out, err := r.PageRepository.Create(ctx, p)
	if err == nil {
		_ = r.byID.Forget(ctx, out.Name)
	}
	return out, err
}

func (r *CachedPageRepo) Update(ctx context.Context, p *domain.Page) (*domain.Page, error) {
	out, err := r.PageRepository.Update(ctx, p)
	if err == nil {
		_ = r.byID.Forget(ctx, out.Name)
	}
	return out, err
}

func (r *CachedPageRepo) Patch(ctx context.Context, name string, f domain.PageFields) (*domain.Page, error) {
	out, err := r.PageRepository.Patch(ctx, name, f)
	if err == nil {
		_ = r.byID.Forget(ctx, name)
	}
	return out, err
}

func (r *CachedPageRepo) Delete(ctx context.Context, name string) error {
	err := r.PageRepository.Delete(ctx, name)
	if err == nil {
		_ = r.byID.Forget(ctx, name)
	}
	return err
}

// CachedUserRepo is the user counterpart of CachedPageRepo. Cached users keep
// their password hash.
type CachedUserRepo struct {
	domain.UserRepository
	byID *cache.JSON[domain.User]
}

func NewCachedUserRepo(next domain.UserRepository, c *cache.Cache, ttl time.Duration, opts ...cache.Option) *CachedUserRepo {
	return &CachedUserRepo{UserRepository: next, byID: cache.NewJSON[domain.User](c, "user:", ttl, opts...)}
}

func (r *CachedUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.byID.Get(ctx, id, func(ctx context.Context) (*domain.User, error) {
		return r.UserRepository.FindByID(ctx, id)
	})
}

func (r *CachedUserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	out, err := r.UserRepository.Create(ctx, u)
	if err == nil {
		_ = r.byID.Forget(ctx, out.ID)
	}
	return out, err
}

func (r *CachedUserRepo) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	out, err := r.UserRepository.Update(ctx, u)
	if err == nil {
		_ = r.byID.Forget(ctx, out.ID)
	}
	return out, err
}

func (r *CachedUserRepo) Patch(ctx context.Context, id string, f domain.UserFields) (*domain.User, error) {
	out, err := r.UserRepository.Patch(ctx, id, f)
	if err == nil {
		_ = r.byID.Forget(ctx, id)
	}
	return out, err
}

func (r *CachedUserRepo) Delete(ctx context.Context, id string) error {
	err := r.UserRepository.Delete(ctx, id)
	if err == nil {
		_ = r.byID.Forget(ctx, id)
	}
	return err
}
