package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"devicecover/internal/cache"
	"devicecover/internal/config"
	"devicecover/internal/events"
	applog "devicecover/internal/log"
	"devicecover/internal/repos"
	"devicecover/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web app and JSON API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if err := applog.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		applog.L().Warn("log.file.open.fail", zap.String("file", cfg.LogFile), zap.Error(err))
	}
	defer applog.Sync()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	var quoteCache cache.Cache = cache.NewMemoryCache()
	if cfg.RedisAddr != "" {
		rc := cache.NewRedisCache(cfg.RedisAddr)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := rc.Ping(ctx)
		cancel()
		if err != nil {
			applog.L().Warn("cache.redis.unreachable", zap.String("addr", cfg.RedisAddr), zap.Error(err))
			_ = rc.Close()
		} else {
			defer rc.Close()
			quoteCache = rc
		}
	}

	var pub events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaQuoteTopic)
	}
	defer pub.Close()

	app := server.New(cfg, db, quoteCache, pub, server.Options{AccessLog: true})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		applog.L().Info("server.shutdown")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	applog.L().Info("server.listen", zap.String("port", cfg.Port))
	return app.Listen(":" + cfg.Port)
}
