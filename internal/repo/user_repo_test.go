package repo

import (
	"context"
	"testing"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-docstore-repo/internal/domain"
	"go-docstore-repo/internal/errs"
	"go-docstore-repo/internal/feature/user"
	"go-docstore-repo/internal/paging"
	"go-docstore-repo/internal/store/memstore"
)

func newUserRepo(t *testing.T) *UserRepo {
	t.Helper()
	r, err := NewUserRepo(memstore.NewUserStore(gocache.New(gocache.NoExpiration, 0)), testDeps())
	require.NoError(t, err)
	return r
}

func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	r := newUserRepo(t)

	_, err := r.Create(ctx, &domain.User{ID: "u1", Source: "github", SourceID: "42", Email: "a@example.com", Firstname: "Ann"})
	require.NoError(t, err)

	got, err := r.FindBySource(ctx, "github", "42")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.ID)

	seen := fixedNow.Add(time.Hour)
	out, err := r.Patch(ctx, "u1", domain.UserFields{LastConnectionAt: &seen})
	require.NoError(t, err)
	assert.Equal(t, seen, out.LastConnectionAt)
	assert.Equal(t, "Ann", out.Firstname)

	out, err = r.Update(ctx, &domain.User{ID: "u1", Lastname: "Lee", CreatedAt: fixedNow.Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, "Lee", out.Lastname)
	assert.Equal(t, "a@example.com", out.Email)
	assert.Equal(t, fixedNow, out.CreatedAt)

	require.NoError(t, r.Delete(ctx, "u1"))
	got, err = r.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got)

	none, err := r.FindBySource(ctx, "github", "42")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestUserUpdateMissing(t *testing.T) {
	r := newUserRepo(t)
	_, err := r.Update(context.Background(), &domain.User{ID: "ghost", Email: "x"})
	assert.True(t, errs.IsInvalidState(err))

	_, err = r.Update(context.Background(), &domain.User{Email: "x"})
	assert.True(t, errs.IsInvalidState(err))
}

func TestFindByIDsHasSetSemantics(t *testing.T) {
	dup := user.Model{ID: "u1", Email: "a@example.com"}
	st := &rawUsers{rows: []user.Model{dup, dup, {ID: "u1", Email: "b@example.com"}, {ID: "u2"}}}
	r, err := NewUserRepo(st, testDeps())
	require.NoError(t, err)

	got, err := r.FindByIDs(context.Background(), []string{"u1", "u2"})
	require.NoError(t, err)
	// equal values collapse, distinct values survive
	assert.Len(t, got, 3)
}

func TestUserSearchCopiesStoreMetadata(t *testing.T) {
	st := &rawUsers{rows: []user.Model{{ID: "b"}, {ID: "a"}}}
	r, err := NewUserRepo(st, testDeps())
	require.NoError(t, err)

	res, err := r.Search(context.Background(), paging.Of(3, 2))
	require.NoError(t, err)
	assert.EqualValues(t, 99, res.TotalElements)
	assert.Equal(t, 3, res.PageNumber)
	assert.Equal(t, "b", res.Content[0].ID)
	assert.Equal(t, "a", res.Content[1].ID)
}
