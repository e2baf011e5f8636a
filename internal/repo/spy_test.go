package repo

import (
	"context"
	"sync/atomic"

	"go-docstore-repo/internal/feature/page"
	"go-docstore-repo/internal/feature/user"
	"go-docstore-repo/internal/paging"
	"go-docstore-repo/internal/store"
)

// spyPages counts store calls and can inject failures.
type spyPages struct {
	store.PageStore
	finds, inserts, saves, deletes atomic.Int32
	failWith                       error
}

func (s *spyPages) FindOne(ctx context.Context, id string) (*page.Model, error) {
	s.finds.Add(1)
	return s.PageStore.FindOne(ctx, id)
}

func (s *spyPages) Insert(ctx context.Context, m page.Model) (page.Model, error) {
	s.inserts.Add(1)
	return s.PageStore.Insert(ctx, m)
}

func (s *spyPages) Save(ctx context.Context, m page.Model) (page.Model, error) {
	s.saves.Add(1)
	if s.failWith != nil {
		return m, s.failWith
	}
	return s.PageStore.Save(ctx, m)
}

func (s *spyPages) Delete(ctx context.Context, id string) error {
	s.deletes.Add(1)
	if s.failWith != nil {
		return s.failWith
	}
	return s.PageStore.Delete(ctx, id)
}

func (s *spyPages) FindMaxOrderByAPI(ctx context.Context, api string) (int, error) {
	if s.failWith != nil {
		return 0, s.failWith
	}
	return s.PageStore.FindMaxOrderByAPI(ctx, api)
}

func (s *spyPages) calls() int32 {
	return s.finds.Load() + s.inserts.Load() + s.saves.Load() + s.deletes.Load()
}

// rawUsers returns stored rows as is, so tests can feed duplicates.
type rawUsers struct {
	store.UserStore
	rows []user.Model
}

func (s *rawUsers) FindByIDs(context.Context, []string) ([]user.Model, error) { return s.rows, nil }

func (s *rawUsers) Search(_ context.Context, p paging.Pageable) (paging.Page[user.Model], error) {
	return paging.Page[user.Model]{Content: s.rows, PageNumber: p.PageNumber, PageElements: len(s.rows), TotalElements: 99}, nil
}
