package repo

import (
	"context"
	"time"

	"go.uber.org/zap"

	"go-docstore-repo/internal/domain"
	"go-docstore-repo/internal/errs"
	"go-docstore-repo/internal/feature/user"
	"go-docstore-repo/internal/mapper"
	"go-docstore-repo/internal/paging"
	"go-docstore-repo/internal/store"
)

type UserRepo struct {
	crud[domain.User, user.Model, domain.UserFields]
	users store.UserStore
}

var _ domain.UserRepository = (*UserRepo)(nil)

func NewUserRepo(st store.UserStore, d Deps) (*UserRepo, error) {
	c, err := newCrud[domain.User, user.Model, domain.UserFields]("user", st, d, user.Apply, touchUser)
	if err != nil {
		return nil, err
	}
	return &UserRepo{crud: c, users: st}, nil
}

func touchUser(u *domain.User, now time.Time) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findByID(ctx, id)
}

func (r *UserRepo) FindBySource(ctx context.Context, source, sourceID string) (_ *domain.User, err error) {
	start := time.Now()
	r.log(ctx).Debug("find user by source", zap.String("source", source), zap.String("source_id", sourceID))
	defer func() { err = r.finish(ctx, "find_by_source", start, err) }()

	row, err := r.users.FindBySource(ctx, source, sourceID)
	if err != nil {
		return nil, r.technical("find_by_source", "an error occurred while trying to find user by source "+source, err)
	}
	return r.one(row)
}

// FindByIDs returns each matching user once, in no particular order.
func (r *UserRepo) FindByIDs(ctx context.Context, ids []string) (_ []domain.User, err error) {
	start := time.Now()
	r.log(ctx).Debug("find users by ids", zap.Int("count", len(ids)))
	defer func() { err = r.finish(ctx, "find_by_ids", start, err) }()

	rows, err := r.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, r.technical("find_by_ids", "an error occurred while trying to find users by ids", err)
	}
	set, err := mapper.CollectionToSet[user.Model, domain.User](r.Mapper, rows)
	if err != nil {
		return nil, err
	}
	return set.Slice(), nil
}

func (r *UserRepo) Search(ctx context.Context, p paging.Pageable) (paging.Page[domain.User], error) {
	return r.search(ctx, p)
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	return r.create(ctx, u)
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) (*domain.User, error) {
	if u == nil {
		err := errs.InvalidState("update user", "user must not be nil")
		return nil, r.finish(ctx, "update", time.Now(), err)
	}
	return r.update(ctx, "update", u.ID, r.stamp(u.MutableFields()))
}

func (r *UserRepo) Patch(ctx context.Context, id string, f domain.UserFields) (*domain.User, error) {
	return r.update(ctx, "patch", id, r.stamp(f))
}

func (r *UserRepo) stamp(f domain.UserFields) domain.UserFields {
	if f.UpdatedAt == nil {
		now := r.Now()
		f.UpdatedAt = &now
	}
	return f
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}
