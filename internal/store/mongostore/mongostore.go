// Package mongostore implements the store contracts on MongoDB collections
// keyed by _id.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-docstore-repo/internal/paging"
	"go-docstore-repo/internal/store"
)

type collection[M store.Document[M]] struct {
	coll     *mongo.Collection
	fallback []paging.Order
	columns  map[string]string
}

func (s *collection[M]) FindOne(ctx context.Context, id string) (*M, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *collection[M]) findOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) (*M, error) {
	var m M
	err := s.coll.FindOne(ctx, filter, opts...).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s find one: %w", s.coll.Name(), err)
	}
	return &m, nil
}

func (s *collection[M]) Insert(ctx context.Context, m M) (M, error) {
	if _, err := s.coll.InsertOne(ctx, m); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return m, fmt.Errorf("%s insert %s: %w: %w", s.coll.Name(), m.Key(), store.ErrDuplicate, err)
		}
		return m, fmt.Errorf("%s insert %s: %w", s.coll.Name(), m.Key(), err)
	}
	return m, nil
}

func (s *collection[M]) Save(ctx context.Context, m M) (M, error) {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": m.Key()}, m, options.Replace().SetUpsert(true))
	if err != nil {
		return m, fmt.Errorf("%s save %s: %w", s.coll.Name(), m.Key(), err)
	}
	return m, nil
}

func (s *collection[M]) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("%s delete %s: %w", s.coll.Name(), id, err)
	}
	return nil
}

func (s *collection[M]) find(ctx context.Context, filter any, opts ...*options.FindOptions) ([]M, error) {
	cur, err := s.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s find: %w", s.coll.Name(), err)
	}
	out := []M{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%s decode: %w", s.coll.Name(), err)
	}
	return out, nil
}

func (s *collection[M]) Search(ctx context.Context, p paging.Pageable) (paging.Page[M], error) {
	p = p.Normalize()
	sorts, err := store.ResolveSort(p.Sort, s.fallback, s.columns, "_id")
	if err != nil {
		return paging.Page[M]{}, err
	}
	total, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return paging.Page[M]{}, fmt.Errorf("%s count: %w", s.coll.Name(), err)
	}
	items, err := s.find(ctx, bson.M{}, options.Find().
		SetSort(sortDoc(sorts)).
		SetSkip(int64(p.Offset())).
		SetLimit(int64(p.PageSize)))
	if err != nil {
		return paging.Page[M]{}, err
	}
	return paging.New(items, p.PageNumber, total), nil
}

func sortDoc(sorts []store.Sort) bson.D {
	d := make(bson.D, 0, len(sorts))
	for _, s := range sorts {
		dir := 1
		if s.Desc {
			dir = -1
		}
		d = append(d, bson.E{Key: s.Column, Value: dir})
	}
	return d
}
