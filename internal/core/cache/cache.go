// Package cache is a read-through byte cache with redis or in-process storage.
package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, b []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

type Cache struct {
	b  Backend
	sf singleflight.Group
}

func New(b Backend) *Cache { return &Cache{b: b} }

// GetOrLoad returns the cached bytes for key, or calls load once for all
// concurrent callers and stores its result. Backend errors fall through to load.
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	return c.getOrLoad(ctx, key, func(ctx context.Context) ([]byte, time.Duration, error) {
		b, err := load(ctx)
		return b, ttl, err
	})
}

// getOrLoad lets load pick the ttl per result; a ttl <= 0 is returned but not stored.
func (c *Cache) getOrLoad(ctx context.Context, key string, load func(context.Context) ([]byte, time.Duration, error)) ([]byte, error) {
	if b, ok, err := c.b.Get(ctx, key); err == nil && ok {
		return b, nil
	}
	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, ttl, e := load(ctx)
		if e != nil {
			return nil, e
		}
		if ttl > 0 {
			_ = c.b.Set(ctx, key, b, ttl)
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error { return c.b.Delete(ctx, keys...) }

func (c *Cache) Close() error { return c.b.Close() }
