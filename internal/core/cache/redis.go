package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type Redis struct {
	RDB *redis.Client
}

func NewRedis(addr, pass string, db int) *Redis {
	return &Redis{RDB: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.RDB.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, b []byte, ttl time.Duration) error {
	return r.RDB.Set(ctx, key, b, ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.RDB.Del(ctx, keys...).Err()
}

func (r *Redis) Close() error { return r.RDB.Close() }
