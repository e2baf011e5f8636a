// Package memstore keeps storage models in process memory on top of go-cache.
package memstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	gocache "github.com/patrickmn/go-cache"

	"go-docstore-repo/internal/paging"
	"go-docstore-repo/internal/store"
)

type compareFunc[M any] func(a, b M) int

// collection stores one entity under a key prefix. Items never expire.
type collection[M store.Document[M]] struct {
	c        *gocache.Cache
	prefix   string
	fallback []paging.Order
	compare  map[string]compareFunc[M]
}

func newCollection[M store.Document[M]](c *gocache.Cache, name string, fallback []paging.Order, compare map[string]compareFunc[M]) *collection[M] {
	return &collection[M]{c: c, prefix: name + ":", fallback: fallback, compare: compare}
}

func (s *collection[M]) key(id string) string { return s.prefix + id }

func (s *collection[M]) FindOne(_ context.Context, id string) (*M, error) {
	v, ok := s.c.Get(s.key(id))
	if !ok {
		return nil, nil
	}
	m := v.(M)
	return &m, nil
}

func (s *collection[M]) Insert(_ context.Context, m M) (M, error) {
	if err := s.c.Add(s.key(m.Key()), m, gocache.NoExpiration); err != nil {
		return m, fmt.Errorf("insert %s: %w", m.Key(), store.ErrDuplicate)
	}
	return m, nil
}

func (s *collection[M]) Save(_ context.Context, m M) (M, error) {
	s.c.Set(s.key(m.Key()), m, gocache.NoExpiration)
	return m, nil
}

func (s *collection[M]) Delete(_ context.Context, id string) error {
	s.c.Delete(s.key(id))
	return nil
}

// all returns every stored model accepted by keep, in no particular order.
func (s *collection[M]) all(keep func(M) bool) []M {
	var out []M
	for k, it := range s.c.Items() {
		if !strings.HasPrefix(k, s.prefix) {
			continue
		}
		m := it.Object.(M)
		if keep == nil || keep(m) {
			out = append(out, m)
		}
	}
	return out
}

func (s *collection[M]) sorted(items []M, orders []paging.Order) ([]M, error) {
	if len(orders) == 0 {
		orders = s.fallback
	}
	fns := make([]compareFunc[M], 0, len(orders))
	for _, o := range orders {
		fn, ok := s.compare[o.Field]
		if !ok {
			return nil, fmt.Errorf("%w: %q", store.ErrInvalidSort, o.Field)
		}
		if o.Desc {
			asc := fn
			fn = func(a, b M) int { return -asc(a, b) }
		}
		fns = append(fns, fn)
	}
	slices.SortStableFunc(items, func(a, b M) int {
		for _, fn := range fns {
			if c := fn(a, b); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.Key(), b.Key())
	})
	return items, nil
}

func (s *collection[M]) Search(_ context.Context, p paging.Pageable) (paging.Page[M], error) {
	p = p.Normalize()
	items, err := s.sorted(s.all(nil), p.Sort)
	if err != nil {
		return paging.Page[M]{}, err
	}
	start, end := paging.Window(p, len(items))
	return paging.New(items[start:end], p.PageNumber, int64(len(items))), nil
}
