package repo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"go-docstore-repo/internal/core/logger"
	"go-docstore-repo/internal/core/metrics"
	"go-docstore-repo/internal/domain"
	"go-docstore-repo/internal/errs"
	"go-docstore-repo/internal/feature/page"
	"go-docstore-repo/internal/feature/user"
	"go-docstore-repo/internal/mapper"
	"go-docstore-repo/internal/paging"
	"go-docstore-repo/internal/store"
	"go-docstore-repo/internal/store/memstore"
)

var fixedNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newMapper() *mapper.Mapper {
	m := mapper.New()
	page.Register(m)
	user.Register(m)
	return m
}

func testDeps() Deps {
	return Deps{
		Mapper:  newMapper(),
		Metrics: metrics.NewRepo(prometheus.NewRegistry()),
		Now:     func() time.Time { return fixedNow },
	}
}

func newPageRepo(t *testing.T) (*PageRepo, *spyPages) {
	t.Helper()
	spy := &spyPages{PageStore: memstore.NewPageStore(gocache.New(gocache.NoExpiration, 0))}
	r, err := NewPageRepo(spy, testDeps())
	require.NoError(t, err)
	return r, spy
}

func TestNewPageRepoRequiresConverters(t *testing.T) {
	_, err := NewPageRepo(memstore.NewPageStore(gocache.New(gocache.NoExpiration, 0)), Deps{Mapper: mapper.New()})
	assert.True(t, errs.IsMapping(err))

	_, err = NewPageRepo(nil, Deps{})
	assert.Error(t, err)
}

func TestCreateThenUpdateKeepsUntouchedFields(t *testing.T) {
	ctx := context.Background()
	r, spy := newPageRepo(t)

	created, err := r.Create(ctx, &domain.Page{Name: "p1", Title: "T", Content: "C", API: "api-1"})
	require.NoError(t, err)
	assert.Equal(t, fixedNow, created.CreatedAt)

	got, err := r.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)

	_, err = r.Update(ctx, &domain.Page{Name: "p1", Title: "T2"})
	require.NoError(t, err)

	stored, err := spy.PageStore.FindOne(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "T2", stored.Title)
	assert.Equal(t, "C", stored.Content)
	assert.Equal(t, "api-1", stored.API)
	assert.Equal(t, fixedNow, stored.CreatedAt)
}

func TestUpdateNeverOverwritesImmutableFields(t *testing.T) {
	ctx := context.Background()
	r, spy := newPageRepo(t)
	_, err := r.Create(ctx, &domain.Page{Name: "p1", API: "api-1", CreatedAt: fixedNow.Add(-time.Hour)})
	require.NoError(t, err)

	_, err = r.Update(ctx, &domain.Page{Name: "p1", API: "api-2", CreatedAt: fixedNow, Order: 4})
	require.NoError(t, err)

	stored, _ := spy.PageStore.FindOne(ctx, "p1")
	assert.Equal(t, "api-1", stored.API)
	assert.Equal(t, fixedNow.Add(-time.Hour), stored.CreatedAt)
	assert.Equal(t, 4, stored.Order)
	assert.Equal(t, fixedNow, stored.UpdatedAt)
}

func TestUpdateWithoutIdentifierTouchesNoStore(t *testing.T) {
	ctx := context.Background()
	r, spy := newPageRepo(t)

	_, err := r.Update(ctx, &domain.Page{Title: "x"})
	assert.True(t, errs.IsInvalidState(err))

	_, err = r.Update(ctx, nil)
	assert.True(t, errs.IsInvalidState(err))

	assert.Zero(t, spy.calls())
}

func TestUpdateMissingRecord(t *testing.T) {
	ctx := context.Background()
	r, spy := newPageRepo(t)

	_, err := r.Update(ctx, &domain.Page{Name: "ghost", Title: "x"})
	require.Error(t, err)

	var ise *errs.InvalidStateError
	require.True(t, errors.As(err, &ise))
	assert.True(t, ise.Missing)
	assert.EqualValues(t, 1, spy.finds.Load())
	assert.Zero(t, spy.saves.Load())
}

func TestPatchCanClearFields(t *testing.T) {
	ctx := context.Background()
	r, _ := newPageRepo(t)
	_, err := r.Create(ctx, &domain.Page{Name: "p1", Order: 3, Published: true})
	require.NoError(t, err)

	zero, no := 0, false
	out, err := r.Patch(ctx, "p1", domain.PageFields{Order: &zero, Published: &no})
	require.NoError(t, err)
	assert.Zero(t, out.Order)
	assert.False(t, out.Published)
}

func TestSaveFailureIsTechnical(t *testing.T) {
	ctx := context.Background()
	r, spy := newPageRepo(t)
	_, err := r.Create(ctx, &domain.Page{Name: "p1"})
	require.NoError(t, err)

	cause := errors.New("connection reset")
	spy.failWith = cause
	_, err = r.Update(ctx, &domain.Page{Name: "p1", Title: "x"})
	require.Error(t, err)
	assert.True(t, errs.IsTechnical(err))
	assert.ErrorIs(t, err, cause)

	_, err = r.FindMaxOrderByAPI(ctx, "api-1")
	assert.True(t, errs.IsTechnical(err))

	err = r.Delete(ctx, "p1")
	assert.True(t, errs.IsTechnical(err))
	assert.ErrorIs(t, err, cause)
}

func TestCreateDuplicateIsTechnicalWithCause(t *testing.T) {
	ctx := context.Background()
	r, _ := newPageRepo(t)
	_, err := r.Create(ctx, &domain.Page{Name: "p1"})
	require.NoError(t, err)

	_, err = r.Create(ctx, &domain.Page{Name: "p1"})
	assert.True(t, errs.IsTechnical(err))
	assert.ErrorIs(t, err, store.ErrDuplicate)

	_, err = r.Create(ctx, &domain.Page{Title: "no name"})
	assert.True(t, errs.IsInvalidState(err))
}

func TestFindAndDeleteMissing(t *testing.T) {
	ctx := context.Background()
	r, _ := newPageRepo(t)

	got, err := r.FindByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, r.Delete(ctx, "nope"))
	assert.NoError(t, r.Delete(ctx, "nope"))
}

func TestPublishedAndMaxOrder(t *testing.T) {
	ctx := context.Background()
	r, _ := newPageRepo(t)
	for _, p := range []domain.Page{
		{Name: "b", API: "api-1", Order: 2, Published: true},
		{Name: "a", API: "api-1", Order: 1},
		{Name: "c", API: "api-1", Order: 5, Published: true},
		{Name: "x", API: "api-2", Order: 9},
	} {
		_, err := r.Create(ctx, &p)
		require.NoError(t, err)
	}

	all, err := r.FindByAPI(ctx, "api-1")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "a", all[0].Name)

	pub, err := r.FindPublishedByAPI(ctx, "api-1")
	require.NoError(t, err)
	require.Len(t, pub, 2)
	assert.Equal(t, "b", pub[0].Name)
	assert.Equal(t, "c", pub[1].Name)

	max, err := r.FindMaxOrderByAPI(ctx, "api-1")
	require.NoError(t, err)
	assert.Equal(t, 5, max)
}

func TestSearchContentLength(t *testing.T) {
	ctx := context.Background()
	r, _ := newPageRepo(t)
	const total = 23
	for i := 0; i < total; i++ {
		_, err := r.Create(ctx, &domain.Page{Name: fmt.Sprintf("p%02d", i), Order: i})
		require.NoError(t, err)
	}

	for _, size := range []int{1, 5, 10, 23, 30} {
		for number := 0; number < 6; number++ {
			res, err := r.Search(ctx, paging.Of(number, size))
			require.NoError(t, err)
			want := min(size, total-number*size)
			if want < 0 {
				want = 0
			}
			assert.Len(t, res.Content, want, "page %d size %d", number, size)
			assert.Equal(t, want, res.PageElements)
			assert.EqualValues(t, total, res.TotalElements)
			for i := 1; i < len(res.Content); i++ {
				assert.Less(t, res.Content[i-1].Order, res.Content[i].Order)
			}
		}
	}

	_, err := r.Search(ctx, paging.Pageable{Sort: []paging.Order{{Field: "content"}}})
	assert.True(t, errs.IsInvalidState(err))
}

func TestStoredRowWithUnknownTypeIsMappingError(t *testing.T) {
	ctx := context.Background()
	r, spy := newPageRepo(t)
	_, err := spy.PageStore.Insert(ctx, page.Model{ID: "bad", Type: "HTML"})
	require.NoError(t, err)

	_, err = r.FindByID(ctx, "bad")
	assert.True(t, errs.IsMapping(err))
}

func TestUnknownTypeIsNeverWritten(t *testing.T) {
	ctx := context.Background()
	r, spy := newPageRepo(t)

	_, err := r.Create(ctx, &domain.Page{Name: "p1", Type: "HTML", API: "a1"})
	assert.True(t, errs.IsMapping(err))
	assert.Zero(t, spy.inserts.Load())
	row, err := spy.PageStore.FindOne(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, row)

	_, err = r.Create(ctx, &domain.Page{Name: "p1", Type: domain.PageMarkdown, Title: "T", API: "a1"})
	require.NoError(t, err)

	_, err = r.Update(ctx, &domain.Page{Name: "p1", Type: "HTML"})
	assert.True(t, errs.IsMapping(err))
	html := domain.PageType("HTML")
	_, err = r.Patch(ctx, "p1", domain.PageFields{Type: &html})
	assert.True(t, errs.IsMapping(err))
	assert.Zero(t, spy.saves.Load())

	got, err := r.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.PageMarkdown, got.Type)

	res, err := r.Search(ctx, paging.Of(0, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.TotalElements)
}

func TestSearchWithHugePageNumber(t *testing.T) {
	ctx := context.Background()
	r, _ := newPageRepo(t)
	_, err := r.Create(ctx, &domain.Page{Name: "p1", API: "a1"})
	require.NoError(t, err)

	res, err := r.Search(ctx, paging.Of(math.MaxInt/20+1, 20))
	require.NoError(t, err)
	assert.Empty(t, res.Content)
	assert.EqualValues(t, 1, res.TotalElements)
}

func TestLogsCarryRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	d := testDeps()
	d.Log = zap.New(core)
	r, err := NewPageRepo(memstore.NewPageStore(gocache.New(gocache.NoExpiration, 0)), d)
	require.NoError(t, err)

	ctx := logger.WithRequestID(context.Background(), "rid-1")
	_, err = r.Update(ctx, &domain.Page{Name: "missing"})
	require.Error(t, err)

	require.NotZero(t, logs.Len())
	for _, e := range logs.All() {
		assert.Equal(t, "rid-1", e.ContextMap()["request_id"], e.Message)
	}
}
