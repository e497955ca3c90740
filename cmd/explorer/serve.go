package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/blockandplay/explorer/internal/api"
	"github.com/blockandplay/explorer/internal/config"
	"github.com/blockandplay/explorer/internal/explorer"
	"github.com/blockandplay/explorer/pkg/cache"
	"github.com/blockandplay/explorer/pkg/logging"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the explorer HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			level := cfg.Log.Level
			if cmd.Flags().Changed("log-level") {
				level = root.logLevel
			}
			logging.Setup(logging.Config{
				Level:  level,
				Pretty: cfg.Log.Pretty || root.pretty,
				Output: cmd.ErrOrStderr(),
				Fields: map[string]string{"network": cfg.Network},
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv, cleanup, err := buildServer(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (env BAP_* overrides)")
	return cmd
}

// buildServer wires config, cache and service into an API server.
func buildServer(ctx context.Context, cfg *config.Config) (*api.Server, func(), error) {
	gin.SetMode(gin.ReleaseMode)
	logger := logging.NewLogger("serve")
	cleanup := func() {}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")
		cleanup = func() { _ = rdb.Close() }
	}

	var manager *cache.Manager
	if cfg.Cache.Enabled {
		manager = cache.NewManager(cache.Config{TTL: cfg.Cache.TTL, Size: cfg.Cache.Size}, rdb)
	}

	svc, err := explorer.NewService(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	srv, err := api.New(cfg, svc, manager)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return srv, cleanup, nil
}
