// Package surrealstore implements the store contracts with parameterised
// SurrealQL. Record keys hold the entity identifier; reads project them back
// as plain strings with meta::id.
package surrealstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"go-docstore-repo/internal/paging"
	"go-docstore-repo/internal/store"
)

type table struct {
	name     string
	fields   []string
	columns  map[string]string
	fallback []paging.Order
}

func (t table) projection() string {
	return "meta::id(id) AS id, " + strings.Join(t.fields, ", ")
}

func (t table) selectFrom(from string) string {
	return fmt.Sprintf("SELECT %s FROM %s", t.projection(), from)
}

func (t table) searchSQL(sorts []store.Sort) string {
	return t.selectFrom(t.name) + orderBy(sorts) + " LIMIT $limit START $start"
}

func (t table) countSQL() string {
	return fmt.Sprintf("SELECT count() AS total FROM %s GROUP ALL", t.name)
}

// orderBy renders resolved sorts. Columns come from fixed allow-lists only.
func orderBy(sorts []store.Sort) string {
	if len(sorts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(sorts))
	for _, s := range sorts {
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		parts = append(parts, s.Column+" "+dir)
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func isAlreadyExists(err error) bool {
	return err != nil && strings.Contains(err.Error(), "already exists")
}

// query runs a single statement and returns its result.
func query[T any](ctx context.Context, db *surrealdb.DB, sql string, vars map[string]any) (T, error) {
	var zero T
	res, err := surrealdb.Query[T](ctx, db, sql, vars)
	if err != nil {
		return zero, err
	}
	if res == nil || len(*res) == 0 {
		return zero, nil
	}
	r := (*res)[0]
	if r.Status != "" && r.Status != "OK" {
		return zero, fmt.Errorf("surrealdb: statement status %s", r.Status)
	}
	return r.Result, nil
}

type collection[M store.Document[M]] struct {
	db *surrealdb.DB
	t  table
}

func (s *collection[M]) rid(id string) models.RecordID { return models.NewRecordID(s.t.name, id) }

func (s *collection[M]) list(ctx context.Context, sql string, vars map[string]any) ([]M, error) {
	rows, err := query[[]M](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("%s select: %w", s.t.name, err)
	}
	if rows == nil {
		rows = []M{}
	}
	return rows, nil
}

func (s *collection[M]) first(ctx context.Context, sql string, vars map[string]any) (*M, error) {
	rows, err := s.list(ctx, sql, vars)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func (s *collection[M]) FindOne(ctx context.Context, id string) (*M, error) {
	return s.first(ctx, s.t.selectFrom("$rid"), map[string]any{"rid": s.rid(id)})
}

func (s *collection[M]) Insert(ctx context.Context, m M) (M, error) {
	_, err := query[[]M](ctx, s.db, "CREATE $rid CONTENT $data RETURN NONE", map[string]any{
		"rid":  s.rid(m.Key()),
		"data": m.WithKey(""),
	})
	if isAlreadyExists(err) {
		return m, fmt.Errorf("%s insert %s: %w: %w", s.t.name, m.Key(), store.ErrDuplicate, err)
	}
	if err != nil {
		return m, fmt.Errorf("%s insert %s: %w", s.t.name, m.Key(), err)
	}
	return m, nil
}

func (s *collection[M]) Save(ctx context.Context, m M) (M, error) {
	_, err := query[[]M](ctx, s.db, "UPSERT $rid CONTENT $data RETURN NONE", map[string]any{
		"rid":  s.rid(m.Key()),
		"data": m.WithKey(""),
	})
	if err != nil {
		return m, fmt.Errorf("%s save %s: %w", s.t.name, m.Key(), err)
	}
	return m, nil
}

func (s *collection[M]) Delete(ctx context.Context, id string) error {
	if _, err := query[[]M](ctx, s.db, "DELETE $rid", map[string]any{"rid": s.rid(id)}); err != nil {
		return fmt.Errorf("%s delete %s: %w", s.t.name, id, err)
	}
	return nil
}

func (s *collection[M]) Search(ctx context.Context, p paging.Pageable) (paging.Page[M], error) {
	p = p.Normalize()
	sorts, err := store.ResolveSort(p.Sort, s.t.fallback, s.t.columns, "id")
	if err != nil {
		return paging.Page[M]{}, err
	}
	type count struct {
		Total int64 `cbor:"total"`
	}
	counts, err := query[[]count](ctx, s.db, s.t.countSQL(), nil)
	if err != nil {
		return paging.Page[M]{}, fmt.Errorf("%s count: %w", s.t.name, err)
	}
	var total int64
	if len(counts) > 0 {
		total = counts[0].Total
	}
	items, err := s.list(ctx, s.t.searchSQL(sorts), map[string]any{
		"limit": p.PageSize,
		"start": p.Offset(),
	})
	if err != nil {
		return paging.Page[M]{}, err
	}
	return paging.New(items, p.PageNumber, total), nil
}

// Ping runs a trivial statement to check the connection.
func Ping(ctx context.Context, db *surrealdb.DB) error {
	_, err := query[bool](ctx, db, "RETURN true", nil)
	return err
}
