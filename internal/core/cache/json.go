package cache

import (
	"context"
	"encoding/json"
	"time"
)

// null marks a cached miss.
var null = []byte("null")

type Option func(*options)

type options struct {
	missTTL time.Duration
}

// WithMissTTL caches "not found" results for d. Without it a miss always
// reaches the loader again.
func WithMissTTL(d time.Duration) Option {
	return func(o *options) { o.missTTL = d }
}

// JSON keeps the JSON form of T values under prefix+id.
type JSON[T any] struct {
	c      *Cache
	prefix string
	ttl    time.Duration
	opt    options
}

func NewJSON[T any](c *Cache, prefix string, ttl time.Duration, opts ...Option) *JSON[T] {
	j := &JSON[T]{c: c, prefix: prefix, ttl: ttl}
	for _, o := range opts {
		o(&j.opt)
	}
	return j
}

func (j *JSON[T]) key(id string) string { return j.prefix + id }

// Get returns the cached value for id or the result of load. A nil result
// means not found.
func (j *JSON[T]) Get(ctx context.Context, id string, load func(ctx context.Context) (*T, error)) (*T, error) {
	b, err := j.c.getOrLoad(ctx, j.key(id), func(ctx context.Context) ([]byte, time.Duration, error) {
		v, e := load(ctx)
		if e != nil {
			return nil, 0, e
		}
		if v == nil {
			return null, j.opt.missTTL, nil
		}
		b, e := json.Marshal(v)
		return b, j.ttl, e
	})
	if err != nil {
		return nil, err
	}
	if string(b) == string(null) {
		return nil, nil
	}
	var out T
	if e := json.Unmarshal(b, &out); e != nil {
		return nil, e
	}
	return &out, nil
}

// Forget drops the entries for ids.
func (j *JSON[T]) Forget(ctx context.Context, ids ...string) error {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, j.key(id))
	}
	return j.c.Delete(ctx, keys...)
}
