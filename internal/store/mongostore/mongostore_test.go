package mongostore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"go-docstore-repo/internal/feature/page"
	"go-docstore-repo/internal/feature/user"
	"go-docstore-repo/internal/paging"
	"go-docstore-repo/internal/store"
)

const pagesNS = "test.pages"

func TestPageStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("find one", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, pagesNS, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "p1"},
			{Key: "title", Value: "T"},
			{Key: "content", Value: "C"},
			{Key: "order", Value: 2},
		}))
		got, err := NewPageStore(mt.DB).FindOne(ctx, "p1")
		require.NoError(mt, err)
		require.NotNil(mt, got)
		assert.Equal(mt, page.Model{ID: "p1", Title: "T", Content: "C", Order: 2}, *got)
	})

	mt.Run("find one missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, pagesNS, mtest.FirstBatch))
		got, err := NewPageStore(mt.DB).FindOne(ctx, "nope")
		require.NoError(mt, err)
		assert.Nil(mt, got)
	})

	mt.Run("insert duplicate", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))
		_, err := NewPageStore(mt.DB).Insert(ctx, page.Model{ID: "p1"})
		require.Error(mt, err)
		assert.True(mt, errors.Is(err, store.ErrDuplicate))
	})

	mt.Run("save upserts", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
			bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: "p1"}}}},
		))
		saved, err := NewPageStore(mt.DB).Save(ctx, page.Model{ID: "p1", Title: "T"})
		require.NoError(mt, err)
		assert.Equal(mt, "T", saved.Title)
	})

	mt.Run("delete missing is fine", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		assert.NoError(mt, NewPageStore(mt.DB).Delete(ctx, "nope"))
	})

	mt.Run("delete failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad", Name: "BadValue"}))
		assert.Error(mt, NewPageStore(mt.DB).Delete(ctx, "p1"))
	})

	mt.Run("find by api", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, pagesNS, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "a"}, {Key: "api", Value: "api-1"}, {Key: "order", Value: 1}},
			bson.D{{Key: "_id", Value: "b"}, {Key: "api", Value: "api-1"}, {Key: "order", Value: 2}},
		))
		got, err := NewPageStore(mt.DB).FindPublishedByAPI(ctx, "api-1")
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, "a", got[0].ID)
		assert.Equal(mt, "b", got[1].ID)
	})

	mt.Run("max order", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, pagesNS, mtest.FirstBatch, bson.D{{Key: "order", Value: 7}}))
		max, err := NewPageStore(mt.DB).FindMaxOrderByAPI(ctx, "api-1")
		require.NoError(mt, err)
		assert.Equal(mt, 7, max)
	})

	mt.Run("max order of empty api", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, pagesNS, mtest.FirstBatch))
		max, err := NewPageStore(mt.DB).FindMaxOrderByAPI(ctx, "api-2")
		require.NoError(mt, err)
		assert.Zero(mt, max)
	})

	mt.Run("search", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, pagesNS, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(12)}}),
			mtest.CreateCursorResponse(0, pagesNS, mtest.FirstBatch,
				bson.D{{Key: "_id", Value: "k"}},
				bson.D{{Key: "_id", Value: "l"}},
			),
		)
		res, err := NewPageStore(mt.DB).Search(ctx, paging.Of(2, 5))
		require.NoError(mt, err)
		assert.EqualValues(mt, 12, res.TotalElements)
		assert.Equal(mt, 2, res.PageElements)
		assert.Equal(mt, 2, res.PageNumber)
		assert.Equal(mt, "k", res.Content[0].ID)
	})

	mt.Run("search rejects unknown sort", func(mt *mtest.T) {
		_, err := NewPageStore(mt.DB).Search(ctx, paging.Pageable{Sort: []paging.Order{{Field: "content"}}})
		assert.True(mt, errors.Is(err, store.ErrInvalidSort))
	})
}

func TestUserStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("find by source", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "u1"},
			{Key: "source", Value: "github"},
			{Key: "sourceId", Value: "42"},
		}))
		got, err := NewUserStore(mt.DB).FindBySource(ctx, "github", "42")
		require.NoError(mt, err)
		require.NotNil(mt, got)
		assert.Equal(mt, user.Model{ID: "u1", Source: "github", SourceID: "42"}, *got)
	})

	mt.Run("find by ids", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "u1"}},
			bson.D{{Key: "_id", Value: "u2"}},
		))
		got, err := NewUserStore(mt.DB).FindByIDs(ctx, []string{"u1", "u2", "u9"})
		require.NoError(mt, err)
		assert.Len(mt, got, 2)
	})

	mt.Run("find by no ids skips the server", func(mt *mtest.T) {
		got, err := NewUserStore(mt.DB).FindByIDs(ctx, nil)
		require.NoError(mt, err)
		assert.Empty(mt, got)
	})
}

func TestSortDoc(t *testing.T) {
	d := sortDoc([]store.Sort{{Column: "createdAt", Desc: true}, {Column: "_id"}})
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}, d)
}
