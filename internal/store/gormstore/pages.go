package gormstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"go-docstore-repo/internal/feature/page"
	"go-docstore-repo/internal/store"
)

type PageStore struct {
	*collection[page.Model]
}

var _ store.PageStore = (*PageStore)(nil)

func NewPageStore(db *gorm.DB) *PageStore {
	return &PageStore{&collection[page.Model]{
		db:    db,
		table: "pages",
		pk:    "name",
		columns: map[string]string{
			"name":      "name",
			"type":      "type",
			"title":     "title",
			"order":     "page_order",
			"published": "published",
			"createdAt": "created_at",
			"updatedAt": "updated_at",
		},
		fallback: store.PageDefaultSort,
	}}
}

func (s *PageStore) FindByAPI(ctx context.Context, api string) ([]page.Model, error) {
	return s.find(s.db.WithContext(ctx).Where("api = ?", api).Order("page_order asc, name asc"))
}

func (s *PageStore) FindPublishedByAPI(ctx context.Context, api string) ([]page.Model, error) {
	return s.find(s.db.WithContext(ctx).
		Where("api = ? AND published = ?", api, true).
		Order("page_order asc, name asc"))
}

func (s *PageStore) FindMaxOrderByAPI(ctx context.Context, api string) (int, error) {
	var max int
	err := s.db.WithContext(ctx).Model(&page.Model{}).
		Where("api = ?", api).
		Select("COALESCE(MAX(page_order), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("pages max order %s: %w", api, err)
	}
	return max, nil
}
