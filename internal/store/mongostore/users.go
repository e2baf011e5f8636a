package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-docstore-repo/internal/feature/user"
	"go-docstore-repo/internal/store"
)

const UsersCollection = "users"

var userColumns = map[string]string{
	"id":               "_id",
	"source":           "source",
	"email":            "email",
	"firstname":        "firstname",
	"lastname":         "lastname",
	"createdAt":        "createdAt",
	"updatedAt":        "updatedAt",
	"lastConnectionAt": "lastConnectionAt",
}

type UserStore struct {
	*collection[user.Model]
}

var _ store.UserStore = (*UserStore)(nil)

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{&collection[user.Model]{
		coll:     db.Collection(UsersCollection),
		fallback: store.UserDefaultSort,
		columns:  userColumns,
	}}
}

func (s *UserStore) FindBySource(ctx context.Context, source, sourceID string) (*user.Model, error) {
	return s.findOne(ctx, bson.M{"source": source, "sourceId": sourceID})
}

func (s *UserStore) FindByIDs(ctx context.Context, ids []string) ([]user.Model, error) {
	if len(ids) == 0 {
		return []user.Model{}, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (s *UserStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "source", Value: 1}, {Key: "sourceId", Value: 1}},
			Options: options.Index().SetName("source_source_id").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email"),
		},
	})
	if err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	return nil
}
