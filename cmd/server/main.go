package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/olachris/backend/internal/api"
	"github.com/olachris/backend/internal/auth"
	"github.com/olachris/backend/internal/config"
	"github.com/olachris/backend/internal/googleid"
	"github.com/olachris/backend/internal/httpserver"
	"github.com/olachris/backend/internal/logger"
	"github.com/olachris/backend/internal/ratelimit"
	"github.com/olachris/backend/internal/session"
	"github.com/olachris/backend/internal/store"
	"github.com/olachris/backend/internal/token"
)

const serviceName = "olachris-backend"

type appConfig struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	// RedisURL, when set, backs the rate limiter with Redis so the budget
	// holds across replicas.
	RedisURL string `env:"REDIS_URL"`
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(logger.WithEnvironment(cfg.Environment, serviceName))

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	var (
		storeCfg  store.Config
		tokenCfg  token.Config
		googleCfg googleid.Config
		limitCfg  ratelimit.Config
		apiCfg    api.Config
		serverCfg httpserver.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&storeCfg) },
		func() error { return config.Load(&tokenCfg) },
		func() error { return config.Load(&googleCfg) },
		func() error { return config.Load(&limitCfg) },
		func() error { return config.Load(&apiCfg) },
		func() error { return config.Load(&serverCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	connectCtx, cancel := context.WithTimeout(ctx, time.Minute)
	client, err := store.Connect(connectCtx, storeCfg)
	cancel()
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn("mongodb disconnect failed", logger.Error(err))
		}
	}()

	users := store.New(client.Database(storeCfg.Database))
	if err := users.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	codec, err := token.New(tokenCfg)
	if err != nil {
		return err
	}

	verifier, err := googleid.New(googleCfg, googleid.WithLogger(log))
	if err != nil {
		return err
	}

	svc := auth.New(users, codec,
		auth.WithGoogleVerifier(verifier),
		auth.WithLogger(log),
	)

	production := cfg.Environment == "production" || cfg.Environment == "prod"
	cookies := session.NewManager(codec.TTL(), session.WithSecure(production))
	sessions := session.NewMiddleware(codec, cookies, users, log)

	limiter := ratelimit.New(limiterStore(cfg, log), limitCfg)

	router := api.NewRouter(apiCfg, api.Deps{
		Auth:        svc,
		Users:       users,
		Sessions:    sessions,
		Cookies:     cookies,
		AuthLimiter: ratelimit.Middleware(limiter, log),
		Health:      store.Healthcheck(client),
		Logger:      log,
	})

	srv := httpserver.New(serverCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, router)
}

// limiterStore picks the rate-limit backend: Redis when configured, process
// memory otherwise.
func limiterStore(cfg appConfig, log *slog.Logger) ratelimit.Store {
	if cfg.RedisURL == "" {
		return ratelimit.NewMemoryStore()
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Warn("invalid REDIS_URL, falling back to in-memory rate limiting",
			logger.Error(err))
		return ratelimit.NewMemoryStore()
	}
	return ratelimit.NewRedisStore(redis.NewClient(opts))
}
