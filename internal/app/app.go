// Package app opens the configured store backend and assembles repositories.
package app

import (
	"context"
	"errors"
	"fmt"

	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"go-docstore-repo/internal/core/cache"
	"go-docstore-repo/internal/core/config"
	"go-docstore-repo/internal/core/database"
	"go-docstore-repo/internal/core/metrics"
	"go-docstore-repo/internal/domain"
	"go-docstore-repo/internal/feature/page"
	"go-docstore-repo/internal/feature/user"
	"go-docstore-repo/internal/mapper"
	"go-docstore-repo/internal/repo"
	"go-docstore-repo/internal/store"
	"go-docstore-repo/internal/store/gormstore"
	"go-docstore-repo/internal/store/memstore"
	"go-docstore-repo/internal/store/mongostore"
	"go-docstore-repo/internal/store/surrealstore"
)

type App struct {
	Pages domain.PageRepository
	Users domain.UserRepository

	log     *zap.Logger
	ping    func(context.Context) error
	closers []func(context.Context) error
}

type stores struct {
	pages store.PageStore
	users store.UserStore
}

// New opens cfg.Store.Driver and wires repositories on top of it. reg may be
// nil, in which case repository metrics are off.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, reg prometheus.Registerer) (*App, error) {
	a := &App{log: log}
	st, err := a.open(ctx, cfg)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	m := mapper.New()
	page.Register(m)
	user.Register(m)

	deps := repo.Deps{Mapper: m, Log: log}
	if reg != nil {
		deps.Metrics = metrics.NewRepo(reg)
	}
	pages, err := repo.NewPageRepo(st.pages, deps)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	users, err := repo.NewUserRepo(st.users, deps)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	a.Pages, a.Users = pages, users

	if cfg.Cache.Enable {
		c, err := a.openCache(ctx, cfg)
		if err != nil {
			_ = a.Close(ctx)
			return nil, err
		}
		miss := cache.WithMissTTL(cfg.Cache.MissTTL())
		a.Pages = repo.NewCachedPageRepo(pages, c, cfg.Cache.TTL(), miss)
		a.Users = repo.NewCachedUserRepo(users, c, cfg.Cache.TTL(), miss)
	}
	log.Info("repositories ready", zap.String("driver", cfg.Store.Driver), zap.Bool("cache", cfg.Cache.Enable))
	return a, nil
}

func (a *App) open(ctx context.Context, cfg *config.Config) (stores, error) {
	switch cfg.Store.Driver {
	case "mongo":
		client, db, err := database.NewMongo(ctx, database.MongoOpts{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			TimeoutSec: cfg.Mongo.TimeoutSec,
		})
		if err != nil {
			return stores{}, err
		}
		a.closers = append(a.closers, client.Disconnect)
		a.ping = func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }
		ps, us := mongostore.NewPageStore(db), mongostore.NewUserStore(db)
		if err := errors.Join(ps.EnsureIndexes(ctx), us.EnsureIndexes(ctx)); err != nil {
			return stores{}, err
		}
		return stores{ps, us}, nil

	case "surrealdb":
		db, err := database.NewSurreal(ctx, database.SurrealOpts{
			URL:       cfg.Surreal.URL,
			Namespace: cfg.Surreal.Namespace,
			Database:  cfg.Surreal.Database,
			Username:  cfg.Surreal.Username,
			Password:  cfg.Surreal.Password,
		})
		if err != nil {
			return stores{}, err
		}
		a.closers = append(a.closers, db.Close)
		a.ping = func(ctx context.Context) error { return surrealstore.Ping(ctx, db) }
		ps, us := surrealstore.NewPageStore(db), surrealstore.NewUserStore(db)
		if err := errors.Join(ps.DefineIndexes(ctx), us.DefineIndexes(ctx)); err != nil {
			return stores{}, err
		}
		return stores{ps, us}, nil

	case "postgres", "mysql":
		db, err := database.NewGorm(database.Opts{
			Driver:             cfg.Store.Driver,
			DSN:                cfg.DB.DSN,
			Username:           cfg.DB.Username,
			Password:           cfg.DB.Password,
			MaxOpenConns:       cfg.DB.MaxOpenConns,
			MaxIdleConns:       cfg.DB.MaxIdleConns,
			ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
			LogLevel:           cfg.DB.LogLevel,
		}, a.log)
		if err != nil {
			return stores{}, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return stores{}, err
		}
		a.closers = append(a.closers, func(context.Context) error { return sqlDB.Close() })
		a.ping = sqlDB.PingContext
		if cfg.DB.AutoMigrate {
			if err := gormstore.Migrate(db); err != nil {
				return stores{}, fmt.Errorf("automigrate: %w", err)
			}
			a.log.Info("automigrate done")
		}
		return stores{gormstore.NewPageStore(db), gormstore.NewUserStore(db)}, nil

	case "memory":
		c := gocache.New(gocache.NoExpiration, 0)
		return stores{memstore.NewPageStore(c), memstore.NewUserStore(c)}, nil
	}
	return stores{}, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func (a *App) openCache(ctx context.Context, cfg *config.Config) (*cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "redis":
		r := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := r.RDB.Ping(ctx).Err(); err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		c := cache.New(r)
		a.closers = append(a.closers, func(context.Context) error { return c.Close() })
		return c, nil
	case "memory", "":
		return cache.New(cache.NewMemory(cfg.Cache.TTL())), nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
}

// Ping checks the store backend. The memory backend is always up.
func (a *App) Ping(ctx context.Context) error {
	if a.ping == nil {
		return nil
	}
	return a.ping(ctx)
}

// Close releases backends in reverse opening order.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	a.closers = nil
	return errors.Join(errs...)
}
