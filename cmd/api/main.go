package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"go-docstore-repo/internal/app"
	"go-docstore-repo/internal/core/config"
	"go-docstore-repo/internal/core/metrics"
	"go-docstore-repo/internal/core/server"
	"go-docstore-repo/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, cleanup := app.Logger(cfg)
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a, err := app.New(ctx, cfg, log, reg)
	if err != nil {
		log.Fatal("app init failed", zap.Error(err))
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			log.Warn("close backends", zap.Error(err))
		}
	}()

	mods := &router.Registry{}
	mods.Register(router.Pages{Repo: a.Pages, Log: log})
	r := router.NewAPIEngine(router.Options{
		Log:      log,
		Metrics:  metrics.NewHTTP(reg),
		Gatherer: reg,
		Health:   a.Ping,
	}, mods)

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("page api starting",
		zap.String("addr", addr),
		zap.String("driver", cfg.Store.Driver),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	if err := server.Run(ctx, srv, log, 10*time.Second); err != nil {
		log.Error("page api stopped with error", zap.Error(err))
		return
	}
	log.Info("page api stopped gracefully")
}
