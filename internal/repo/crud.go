package repo

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"go-docstore-repo/internal/core/logger"
	"go-docstore-repo/internal/core/metrics"
	"go-docstore-repo/internal/errs"
	"go-docstore-repo/internal/mapper"
	"go-docstore-repo/internal/paging"
	"go-docstore-repo/internal/store"
)

// Deps are the collaborators shared by every repository. Mapper is required.
type Deps struct {
	Mapper  *mapper.Mapper
	Log     *zap.Logger
	Metrics *metrics.Repo
	Now     func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// crud implements the operations every entity shares: D is the domain type,
// M its storage model and F its mutable-field patch.
type crud[D any, M store.Document[M], F any] struct {
	Deps
	entity string
	st     store.Collection[M]
	apply  func(*M, F)
	// touch stamps creation timestamps on a copy of the entity.
	touch func(*D, time.Time)
}

func newCrud[D any, M store.Document[M], F any](entity string, st store.Collection[M], d Deps, apply func(*M, F), touch func(*D, time.Time)) (crud[D, M, F], error) {
	if d.Mapper == nil {
		return crud[D, M, F]{}, errors.New("repo: mapper is required")
	}
	if err := mapper.Require[D, M](d.Mapper); err != nil {
		return crud[D, M, F]{}, err
	}
	if err := mapper.Require[M, D](d.Mapper); err != nil {
		return crud[D, M, F]{}, err
	}
	return crud[D, M, F]{Deps: d.withDefaults(), entity: entity, st: st, apply: apply, touch: touch}, nil
}

func (r *crud[D, M, F]) log(ctx context.Context) *zap.Logger { return logger.For(ctx, r.Log) }

// finish logs and records the outcome of op and hands err back.
func (r *crud[D, M, F]) finish(ctx context.Context, op string, start time.Time, err error) error {
	r.Metrics.Observe(r.entity, op, start, err)
	l := r.log(ctx)
	if err != nil {
		if errs.IsTechnical(err) {
			l.Error(r.entity+" "+op+" failed", zap.Error(err))
		} else {
			l.Debug(r.entity+" "+op+" rejected", zap.Error(err))
		}
		return err
	}
	l.Debug(r.entity + " " + op + " done")
	return nil
}

func (r *crud[D, M, F]) technical(op, msg string, err error) error {
	if errors.Is(err, store.ErrInvalidSort) {
		return errs.InvalidState(op, "%v", err)
	}
	return errs.Technical(r.entity+"."+op, msg, err)
}

func (r *crud[D, M, F]) one(row *M) (*D, error) { return mapper.Map[M, D](r.Mapper, row) }

func (r *crud[D, M, F]) list(rows []M) ([]D, error) { return mapper.CollectionToList[M, D](r.Mapper, rows) }

func (r *crud[D, M, F]) findByID(ctx context.Context, id string) (_ *D, err error) {
	start := time.Now()
	r.log(ctx).Debug("find "+r.entity+" by id", zap.String("id", id))
	defer func() { err = r.finish(ctx, "find_by_id", start, err) }()

	row, err := r.st.FindOne(ctx, id)
	if err != nil {
		return nil, r.technical("find_by_id", "an error occurred while trying to find "+r.entity+" "+id, err)
	}
	return r.one(row)
}

func (r *crud[D, M, F]) create(ctx context.Context, d *D) (_ *D, err error) {
	start := time.Now()
	r.log(ctx).Debug("create " + r.entity)
	defer func() { err = r.finish(ctx, "create", start, err) }()

	if d == nil {
		return nil, errs.InvalidState("create "+r.entity, "%s must not be nil", r.entity)
	}
	in := *d
	if r.touch != nil {
		r.touch(&in, r.Now())
	}
	row, err := mapper.Map[D, M](r.Mapper, &in)
	if err != nil {
		return nil, err
	}
	if (*row).Key() == "" {
		return nil, errs.InvalidState("create "+r.entity, "%s identifier is required", r.entity)
	}
	saved, err := r.st.Insert(ctx, *row)
	if err != nil {
		return nil, r.technical("create", "an error occurred while trying to create "+r.entity+" "+(*row).Key(), err)
	}
	return r.one(&saved)
}

// update is the fetch, merge, save sequence. It is not atomic: a write landing
// between FindOne and Save is overwritten.
func (r *crud[D, M, F]) update(ctx context.Context, op, id string, f F) (_ *D, err error) {
	start := time.Now()
	r.log(ctx).Debug(op+" "+r.entity, zap.String("id", id))
	defer func() { err = r.finish(ctx, op, start, err) }()

	if id == "" {
		return nil, errs.InvalidState(op+" "+r.entity, "%s identifier is required", r.entity)
	}
	row, err := r.st.FindOne(ctx, id)
	if err != nil {
		return nil, r.technical(op, "an error occurred while trying to find "+r.entity+" "+id, err)
	}
	if row == nil {
		return nil, errs.Missing(op+" "+r.entity, "no %s found with identifier %q", r.entity, id)
	}
	r.apply(row, f)
	// a merged row that cannot be read back is never written
	if _, err := r.one(row); err != nil {
		return nil, err
	}
	saved, err := r.st.Save(ctx, *row)
	if err != nil {
		return nil, r.technical(op, "an error occurred while trying to update "+r.entity+" "+id, err)
	}
	return r.one(&saved)
}

func (r *crud[D, M, F]) delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	r.log(ctx).Debug("delete "+r.entity, zap.String("id", id))
	defer func() { err = r.finish(ctx, "delete", start, err) }()

	if id == "" {
		return errs.InvalidState("delete "+r.entity, "%s identifier is required", r.entity)
	}
	if err := r.st.Delete(ctx, id); err != nil {
		return r.technical("delete", "an error occurred while trying to delete "+r.entity+" "+id, err)
	}
	return nil
}

func (r *crud[D, M, F]) search(ctx context.Context, p paging.Pageable) (_ paging.Page[D], err error) {
	start := time.Now()
	r.log(ctx).Debug("search "+r.entity+"s", zap.Int("page", p.PageNumber), zap.Int("size", p.PageSize))
	defer func() { err = r.finish(ctx, "search", start, err) }()

	res, err := r.st.Search(ctx, p)
	if err != nil {
		return paging.Page[D]{}, r.technical("search", "an error occurred while trying to search "+r.entity+"s", err)
	}
	return paging.Convert(res, r.list)
}
