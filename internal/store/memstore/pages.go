package memstore

import (
	"cmp"
	"context"
	"strings"

	gocache "github.com/patrickmn/go-cache"

	"go-docstore-repo/internal/feature/page"
	"go-docstore-repo/internal/paging"
	"go-docstore-repo/internal/store"
)

type PageStore struct {
	*collection[page.Model]
}

var _ store.PageStore = (*PageStore)(nil)

func NewPageStore(c *gocache.Cache) *PageStore {
	return &PageStore{newCollection(c, "pages", store.PageDefaultSort, map[string]compareFunc[page.Model]{
		"name":      func(a, b page.Model) int { return strings.Compare(a.ID, b.ID) },
		"type":      func(a, b page.Model) int { return strings.Compare(a.Type, b.Type) },
		"title":     func(a, b page.Model) int { return strings.Compare(a.Title, b.Title) },
		"order":     func(a, b page.Model) int { return cmp.Compare(a.Order, b.Order) },
		"published": func(a, b page.Model) int { return compareBool(a.Published, b.Published) },
		"createdAt": func(a, b page.Model) int { return a.CreatedAt.Compare(b.CreatedAt) },
		"updatedAt": func(a, b page.Model) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
	})}
}

func (s *PageStore) FindByAPI(_ context.Context, api string) ([]page.Model, error) {
	return s.sorted(s.all(func(m page.Model) bool { return m.API == api }), []paging.Order{{Field: "order"}})
}

func (s *PageStore) FindPublishedByAPI(_ context.Context, api string) ([]page.Model, error) {
	return s.sorted(s.all(func(m page.Model) bool { return m.API == api && m.Published }), []paging.Order{{Field: "order"}})
}

func (s *PageStore) FindMaxOrderByAPI(_ context.Context, api string) (int, error) {
	max := 0
	for i, m := range s.all(func(m page.Model) bool { return m.API == api }) {
		if i == 0 || m.Order > max {
			max = m.Order
		}
	}
	return max, nil
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
