package gormstore

import (
	"context"

	"gorm.io/gorm"

	"go-docstore-repo/internal/feature/user"
	"go-docstore-repo/internal/store"
)

type UserStore struct {
	*collection[user.Model]
}

var _ store.UserStore = (*UserStore)(nil)

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{&collection[user.Model]{
		db:    db,
		table: "users",
		pk:    "id",
		columns: map[string]string{
			"id":               "id",
			"source":           "source",
			"email":            "email",
			"firstname":        "firstname",
			"lastname":         "lastname",
			"createdAt":        "created_at",
			"updatedAt":        "updated_at",
			"lastConnectionAt": "last_connection_at",
		},
		fallback: store.UserDefaultSort,
	}}
}

func (s *UserStore) FindBySource(ctx context.Context, source, sourceID string) (*user.Model, error) {
	return s.first(s.db.WithContext(ctx).Where("source = ? AND source_id = ?", source, sourceID))
}

func (s *UserStore) FindByIDs(ctx context.Context, ids []string) ([]user.Model, error) {
	if len(ids) == 0 {
		return []user.Model{}, nil
	}
	return s.find(s.db.WithContext(ctx).Where("id IN ?", ids))
}
