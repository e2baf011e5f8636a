// Package gormstore implements the store contracts on a relational database
// through gorm. The same storage models double as gorm models.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"go-docstore-repo/internal/feature/page"
	"go-docstore-repo/internal/feature/user"
	"go-docstore-repo/internal/paging"
	"go-docstore-repo/internal/store"
)

// Migrate creates or alters the pages and users tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&page.Model{}, &user.Model{})
}

type collection[M store.Document[M]] struct {
	db       *gorm.DB
	table    string
	pk       string
	fallback []paging.Order
	columns  map[string]string
}

func (s *collection[M]) FindOne(ctx context.Context, id string) (*M, error) {
	return s.first(s.db.WithContext(ctx).Where(s.pk+" = ?", id))
}

func (s *collection[M]) first(tx *gorm.DB) (*M, error) {
	var m M
	err := tx.First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s first: %w", s.table, err)
	}
	return &m, nil
}

func (s *collection[M]) Insert(ctx context.Context, m M) (M, error) {
	err := s.db.WithContext(ctx).Create(&m).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return m, fmt.Errorf("%s insert %s: %w: %w", s.table, m.Key(), store.ErrDuplicate, err)
	}
	if err != nil {
		return m, fmt.Errorf("%s insert %s: %w", s.table, m.Key(), err)
	}
	return m, nil
}

func (s *collection[M]) Save(ctx context.Context, m M) (M, error) {
	if err := s.db.WithContext(ctx).Save(&m).Error; err != nil {
		return m, fmt.Errorf("%s save %s: %w", s.table, m.Key(), err)
	}
	return m, nil
}

func (s *collection[M]) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where(s.pk+" = ?", id).Delete(new(M)).Error; err != nil {
		return fmt.Errorf("%s delete %s: %w", s.table, id, err)
	}
	return nil
}

func (s *collection[M]) find(tx *gorm.DB) ([]M, error) {
	out := []M{}
	if err := tx.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("%s find: %w", s.table, err)
	}
	return out, nil
}

func (s *collection[M]) Search(ctx context.Context, p paging.Pageable) (paging.Page[M], error) {
	p = p.Normalize()
	sorts, err := store.ResolveSort(p.Sort, s.fallback, s.columns, s.pk)
	if err != nil {
		return paging.Page[M]{}, err
	}
	tx := s.db.WithContext(ctx).Model(new(M))
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return paging.Page[M]{}, fmt.Errorf("%s count: %w", s.table, err)
	}
	items, err := s.find(s.db.WithContext(ctx).
		Order(orderClause(sorts)).
		Offset(p.Offset()).
		Limit(p.PageSize))
	if err != nil {
		return paging.Page[M]{}, err
	}
	return paging.New(items, p.PageNumber, total), nil
}

// orderClause renders resolved sorts. Columns come from fixed allow-lists only.
func orderClause(sorts []store.Sort) string {
	parts := make([]string, 0, len(sorts))
	for _, s := range sorts {
		if s.Desc {
			parts = append(parts, s.Column+" desc")
		} else {
			parts = append(parts, s.Column+" asc")
		}
	}
	return strings.Join(parts, ", ")
}
