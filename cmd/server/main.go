package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/salesdesk/core/config"
	"github.com/dmitrymomot/salesdesk/core/logger"
	"github.com/dmitrymomot/salesdesk/core/server"
	"github.com/dmitrymomot/salesdesk/integration/database/pg"
	"github.com/dmitrymomot/salesdesk/integration/database/redis"
	"github.com/dmitrymomot/salesdesk/pkg/ratelimiter"
)

type appConfig struct {
	Logger logger.Config
	Server server.Config
	Redis  redis.Config
	DB     pg.Config

	AppName string `env:"APP_NAME" envDefault:"salesdesk"`
	Env     string `env:"APP_ENV" envDefault:"development"`
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.NewFromConfig(cfg.Logger)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	regOpts := []ratelimiter.RegistryOption{
		ratelimiter.WithAutoCleanup(time.Minute),
		ratelimiter.WithRegistryLogger(log),
		ratelimiter.WithLimiterOptions(ratelimiter.WithLogger(log)),
	}

	// With REDIS_URL set, limiters share state across instances.
	// Without it, each instance counts in memory on its own.
	var redisClient *goredis.Client
	if cfg.Redis.ConnectionURL != "" {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		redisClient = client

		regOpts = append(regOpts, ratelimiter.WithStoreFactory(func(name string) ratelimiter.Store {
			return ratelimiter.NewRedisStore(client,
				ratelimiter.WithKeyPrefix("ratelimit:"+name+":"),
				ratelimiter.WithScanBatchSize(cfg.Redis.ScanBatchSize))
		}))
		log.Info("rate limiting backed by redis")
	} else {
		log.Info("rate limiting backed by in-process memory")
	}

	reg := ratelimiter.NewRegistry(regOpts...)
	defer reg.Shutdown()

	health := map[string]func(context.Context) error{}
	if redisClient != nil {
		health["redis"] = redis.Healthcheck(redisClient)
	}
	if cfg.DB.ConnectionURL != "" {
		pool, err := pg.Connect(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer pool.Close()
		health["postgres"] = pg.Healthcheck(pool)
	}

	handler := newRouter(routerDeps{
		Registry: reg,
		Logger:   log,
		Health:   health,
	})

	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
	if err != nil {
		return err
	}

	log.Info("starting server",
		slog.String("app", cfg.AppName),
		slog.String("env", cfg.Env),
		slog.String("addr", cfg.Server.Addr),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(ctx, handler))
	return g.Wait()
}
