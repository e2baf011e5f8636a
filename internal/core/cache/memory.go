package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type Memory struct{ c *gocache.Cache }

func NewMemory(defaultTTL time.Duration) *Memory {
	return &Memory{c: gocache.New(defaultTTL, time.Minute)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	return b, true, nil
}

func (m *Memory) Set(_ context.Context, key string, b []byte, ttl time.Duration) error {
	m.c.Set(key, b, ttl)
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.c.Delete(k)
	}
	return nil
}

func (m *Memory) Close() error { return nil }
