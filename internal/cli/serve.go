package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"bookstore/internal/config"
	"bookstore/internal/infra/cache"
	"bookstore/internal/infra/db"
	"bookstore/internal/infra/messaging"
	"bookstore/internal/server"

	"github.com/spf13/cobra"
)

type serveOptions struct {
	migrate bool
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rootOpts.Config, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.migrate, "migrate", false, "run schema migration before serving")
	return cmd
}

func runServe(ctx context.Context, cfg config.Config, opts *serveOptions) error {
	//DB接続
	gdb, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	if opts.migrate || cfg.IsDev() {
		if err := db.Migrate(gdb); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	deps := server.Deps{DB: gdb}

	//新着一覧のキャッシュ（任意）
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer client.Close()
		deps.Cache = cache.NewCatalogRedisCache(client, cfg.CatalogCacheTTL)
	}

	//売上・発注イベント（任意）
	if cfg.AMQPURL != "" {
		conn, ch, err := messaging.SetupConn(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return err
		}
		defer conn.Close()
		defer ch.Close()
		deps.Events = messaging.NewPublisher(ch, cfg.AMQPExchange)
	}

	e, err := server.New(cfg, deps)
	if err != nil {
		return err
	}

	slog.Info("starting bookstore",
		"env", cfg.GoEnv,
		"db", cfg.DBDriver,
		"cache", deps.Cache != nil,
		"events", deps.Events != nil,
		"reorder_quantity", cfg.ReorderQuantity,
	)
	return server.Start(ctx, ":"+cfg.Port, e)
}
