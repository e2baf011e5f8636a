package surrealstore

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"go-docstore-repo/internal/feature/page"
	"go-docstore-repo/internal/store"
)

var pagesTable = table{
	name:   "pages",
	fields: []string{"type", "title", "content", "last_contributor", "page_order", "api", "published", "created_at", "updated_at"},
	columns: map[string]string{
		"name":      "id",
		"type":      "type",
		"title":     "title",
		"order":     "page_order",
		"published": "published",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	},
	fallback: store.PageDefaultSort,
}

type PageStore struct {
	*collection[page.Model]
}

var _ store.PageStore = (*PageStore)(nil)

func NewPageStore(db *surrealdb.DB) *PageStore {
	return &PageStore{&collection[page.Model]{db: db, t: pagesTable}}
}

func (s *PageStore) FindByAPI(ctx context.Context, api string) ([]page.Model, error) {
	return s.list(ctx, s.t.selectFrom(s.t.name)+" WHERE api = $api ORDER BY page_order ASC, id ASC",
		map[string]any{"api": api})
}

func (s *PageStore) FindPublishedByAPI(ctx context.Context, api string) ([]page.Model, error) {
	return s.list(ctx, s.t.selectFrom(s.t.name)+" WHERE api = $api AND published = true ORDER BY page_order ASC, id ASC",
		map[string]any{"api": api})
}

func (s *PageStore) FindMaxOrderByAPI(ctx context.Context, api string) (int, error) {
	type top struct {
		Order int `cbor:"page_order"`
	}
	rows, err := query[[]top](ctx, s.db,
		"SELECT page_order FROM pages WHERE api = $api ORDER BY page_order DESC LIMIT 1",
		map[string]any{"api": api})
	if err != nil {
		return 0, fmt.Errorf("pages max order %s: %w", api, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Order, nil
}

// DefineIndexes declares the (api, page_order) index. Tables themselves are
// created on first write.
func (s *PageStore) DefineIndexes(ctx context.Context) error {
	_, err := query[any](ctx, s.db, "DEFINE INDEX IF NOT EXISTS pages_api_order ON TABLE pages FIELDS api, page_order", nil)
	if err != nil {
		return fmt.Errorf("pages indexes: %w", err)
	}
	return nil
}
