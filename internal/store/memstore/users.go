package memstore

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"go-docstore-repo/internal/feature/user"
	"go-docstore-repo/internal/store"
)

type UserStore struct {
	*collection[user.Model]
}

var _ store.UserStore = (*UserStore)(nil)

func NewUserStore(c *gocache.Cache) *UserStore {
	return &UserStore{newCollection(c, "users", store.UserDefaultSort, map[string]compareFunc[user.Model]{
		"id":               func(a, b user.Model) int { return strings.Compare(a.ID, b.ID) },
		"source":           func(a, b user.Model) int { return strings.Compare(a.Source, b.Source) },
		"email":            func(a, b user.Model) int { return strings.Compare(a.Email, b.Email) },
		"firstname":        func(a, b user.Model) int { return strings.Compare(a.Firstname, b.Firstname) },
		"lastname":         func(a, b user.Model) int { return strings.Compare(a.Lastname, b.Lastname) },
		"createdAt":        func(a, b user.Model) int { return a.CreatedAt.Compare(b.CreatedAt) },
		"updatedAt":        func(a, b user.Model) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
		"lastConnectionAt": func(a, b user.Model) int { return deref(a.LastConnectionAt).Compare(deref(b.LastConnectionAt)) },
	})}
}

func (s *UserStore) FindBySource(_ context.Context, source, sourceID string) (*user.Model, error) {
	found := s.all(func(m user.Model) bool { return m.Source == source && m.SourceID == sourceID })
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (s *UserStore) FindByIDs(ctx context.Context, ids []string) ([]user.Model, error) {
	out := make([]user.Model, 0, len(ids))
	for _, id := range ids {
		m, _ := s.FindOne(ctx, id)
		if m != nil {
			out = append(out, *m)
		}
	}
	return out, nil
}

func deref(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
