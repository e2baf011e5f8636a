package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-docstore-repo/internal/feature/page"
	"go-docstore-repo/internal/store"
)

const PagesCollection = "pages"

var pageColumns = map[string]string{
	"name":      "_id",
	"type":      "type",
	"title":     "title",
	"order":     "order",
	"published": "published",
	"createdAt": "createdAt",
	"updatedAt": "updatedAt",
}

type PageStore struct {
	*collection[page.Model]
}

var _ store.PageStore = (*PageStore)(nil)

func NewPageStore(db *mongo.Database) *PageStore {
	return &PageStore{&collection[page.Model]{
		coll:     db.Collection(PagesCollection),
		fallback: store.PageDefaultSort,
		columns:  pageColumns,
	}}
}

func byOrder() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "_id", Value: 1}})
}

func (s *PageStore) FindByAPI(ctx context.Context, api string) ([]page.Model, error) {
	return s.find(ctx, bson.M{"api": api}, byOrder())
}

func (s *PageStore) FindPublishedByAPI(ctx context.Context, api string) ([]page.Model, error) {
	return s.find(ctx, bson.M{"api": api, "published": true}, byOrder())
}

func (s *PageStore) FindMaxOrderByAPI(ctx context.Context, api string) (int, error) {
	var top struct {
		Order int `bson:"order"`
	}
	err := s.coll.FindOne(ctx, bson.M{"api": api}, options.FindOne().
		SetSort(bson.D{{Key: "order", Value: -1}}).
		SetProjection(bson.M{"order": 1})).Decode(&top)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("pages max order %s: %w", api, err)
	}
	return top.Order, nil
}

// EnsureIndexes creates the (api, order) index used by the API lookups.
func (s *PageStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "api", Value: 1}, {Key: "order", Value: 1}},
		Options: options.Index().SetName("api_order"),
	})
	if err != nil {
		return fmt.Errorf("pages indexes: %w", err)
	}
	return nil
}
