// Package store declares the narrow per-entity access each backend implements.
// Backends return plain wrapped errors; classification happens in repositories.
package store

import (
	"context"
	"errors"
	"fmt"

	"go-docstore-repo/internal/feature/page"
	"go-docstore-repo/internal/feature/user"
	"go-docstore-repo/internal/paging"
)

var (
	ErrDuplicate   = errors.New("store: duplicate identifier")
	ErrInvalidSort = errors.New("store: sort field not allowed")
)

// Document is a storage model addressable by a string key.
type Document[M any] interface {
	Key() string
	WithKey(id string) M
}

// Collection is the access shared by every entity. FindOne returns (nil, nil)
// when nothing matches; Delete of a missing id is not an error.
type Collection[M any] interface {
	FindOne(ctx context.Context, id string) (*M, error)
	Insert(ctx context.Context, m M) (M, error)
	Save(ctx context.Context, m M) (M, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, p paging.Pageable) (paging.Page[M], error)
}

type PageStore interface {
	Collection[page.Model]
	// FindByAPI and FindPublishedByAPI order by page order ascending.
	FindByAPI(ctx context.Context, api string) ([]page.Model, error)
	FindPublishedByAPI(ctx context.Context, api string) ([]page.Model, error)
	// FindMaxOrderByAPI is 0 when the API has no pages.
	FindMaxOrderByAPI(ctx context.Context, api string) (int, error)
}

type UserStore interface {
	Collection[user.Model]
	FindBySource(ctx context.Context, source, sourceID string) (*user.Model, error)
	FindByIDs(ctx context.Context, ids []string) ([]user.Model, error)
}

// Logical sort fields accepted by every backend.
var (
	PageSortFields = []string{"name", "type", "title", "order", "published", "createdAt", "updatedAt"}
	UserSortFields = []string{"id", "source", "email", "firstname", "lastname", "createdAt", "updatedAt", "lastConnectionAt"}

	PageDefaultSort = []paging.Order{{Field: "order"}}
	UserDefaultSort = []paging.Order{{Field: "createdAt", Desc: true}}
)

// Sort is a resolved backend column order.
type Sort struct {
	Column string
	Desc   bool
}

// ResolveSort maps logical orders onto backend columns. Orders default to
// fallback, and idColumn is appended as a tie-breaker so pages are stable.
func ResolveSort(orders, fallback []paging.Order, columns map[string]string, idColumn string) ([]Sort, error) {
	if len(orders) == 0 {
		orders = fallback
	}
	out := make([]Sort, 0, len(orders)+1)
	hasID := false
	for _, o := range orders {
		col, ok := columns[o.Field]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSort, o.Field)
		}
		hasID = hasID || col == idColumn
		out = append(out, Sort{Column: col, Desc: o.Desc})
	}
	if !hasID {
		out = append(out, Sort{Column: idColumn})
	}
	return out, nil
}
