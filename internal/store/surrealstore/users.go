package surrealstore

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"go-docstore-repo/internal/feature/user"
	"go-docstore-repo/internal/store"
)

var usersTable = table{
	name: "users",
	fields: []string{"source", "source_id", "password", "email", "firstname", "lastname", "picture",
		"created_at", "updated_at", "last_connection_at"},
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
}

type UserStore struct {
	*collection[user.Model]
}

var _ store.UserStore = (*UserStore)(nil)

func NewUserStore(db *surrealdb.DB) *UserStore {
	return &UserStore{&collection[user.Model]{db: db, t: usersTable}}
}

func (s *UserStore) FindBySource(ctx context.Context, source, sourceID string) (*user.Model, error) {
	return s.first(ctx, s.t.selectFrom(s.t.name)+" WHERE source = $source AND source_id = $source_id LIMIT 1",
		map[string]any{"source": source, "source_id": sourceID})
}

func (s *UserStore) FindByIDs(ctx context.Context, ids []string) ([]user.Model, error) {
	if len(ids) == 0 {
		return []user.Model{}, nil
	}
	rids := make([]models.RecordID, 0, len(ids))
	for _, id := range ids {
		rids = append(rids, s.rid(id))
	}
	return s.list(ctx, s.t.selectFrom("$ids"), map[string]any{"ids": rids})
}

func (s *UserStore) DefineIndexes(ctx context.Context) error {
	for _, sql := range []string{
		"DEFINE INDEX IF NOT EXISTS users_source ON TABLE users FIELDS source, source_id UNIQUE",
		"DEFINE INDEX IF NOT EXISTS users_email ON TABLE users FIELDS email",
	} {
		if _, err := query[any](ctx, s.db, sql, nil); err != nil {
			return fmt.Errorf("users indexes: %w", err)
		}
	}
	return nil
}
