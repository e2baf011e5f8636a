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
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-docstore-repo/internal/app"
	"go-docstore-repo/internal/core/auth"
	"go-docstore-repo/internal/core/config"
	"go-docstore-repo/internal/core/metrics"
	"go-docstore-repo/internal/core/server"
	"go-docstore-repo/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:          "admin",
		Short:        "Page and user administration service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", os.Getenv("CONFIG_PATH"), "config file")
	root.AddCommand(serveCmd(&cfgPath), tokenCmd(&cfgPath))
	return root
}

func jwterFrom(cfg *config.Config) *auth.JWTer {
	return &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}
}

func serveCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the admin HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return fmt.Errorf("jwt.secret is required")
			}
			log, cleanup := app.Logger(cfg)
			defer cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			reg := prometheus.NewRegistry()
			a, err := app.New(ctx, cfg, log, reg)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(context.Background()); err != nil {
					log.Warn("close backends", zap.Error(err))
				}
			}()

			mods := &router.Registry{}
			mods.Register(router.Pages{Repo: a.Pages, Log: log})
			mods.Register(router.Users{Repo: a.Users, Log: log})
			r := router.NewAdminEngine(router.Options{
				Log:      log,
				Metrics:  metrics.NewHTTP(reg),
				Gatherer: reg,
				Health:   a.Ping,
			}, jwterFrom(cfg), mods)

			addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
			srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second)
			log.Info("admin api starting", zap.String("addr", addr), zap.String("driver", cfg.Store.Driver))
			return server.Run(ctx, srv, log, 10*time.Second)
		},
	}
}

func tokenCmd(cfgPath *string) *cobra.Command {
	var uid, role string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the admin API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return fmt.Errorf("jwt.secret is required")
			}
			tok, err := jwterFrom(cfg).Issue(uid, role)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	cmd.Flags().StringVar(&uid, "uid", "admin", "subject user id")
	cmd.Flags().StringVar(&role, "role", auth.RoleAdmin, "token role")
	return cmd
}
