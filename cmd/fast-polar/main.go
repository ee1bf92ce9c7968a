package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Vinnie-Palazeti/fast-polar/migrations"
	"github.com/Vinnie-Palazeti/fast-polar/modules/shop"
	"github.com/Vinnie-Palazeti/fast-polar/pkg/config"
	"github.com/Vinnie-Palazeti/fast-polar/pkg/httpserver"
	"github.com/Vinnie-Palazeti/fast-polar/pkg/logger"
	"github.com/Vinnie-Palazeti/fast-polar/pkg/metrics"
	"github.com/Vinnie-Palazeti/fast-polar/pkg/pg"
	"github.com/Vinnie-Palazeti/fast-polar/pkg/polar"
	"github.com/Vinnie-Palazeti/fast-polar/pkg/redis"
	"github.com/Vinnie-Palazeti/fast-polar/pkg/session"
	"github.com/Vinnie-Palazeti/fast-polar/pkg/webhook"
	"github.com/Vinnie-Palazeti/fast-polar/svc/auth"
	"github.com/Vinnie-Palazeti/fast-polar/svc/directory"
	"github.com/Vinnie-Palazeti/fast-polar/svc/subscription"
)

type appConfig struct {
	Logger  logger.Config
	Server  httpserver.Config
	PG      pg.Config
	Redis   redis.Config
	Session session.Config
	Polar   polar.Config
	Google  auth.GoogleConfig
	Shop    shop.Config

	// SettleDelay is the pause after provider mutations before re-rendering
	// entitlement state.
	SettleDelay time.Duration `env:"BILLING_SETTLE_DELAY" envDefault:"2s"`
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.NewFromConfig(cfg.Logger, "fast-polar")

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, migrations.FS, "."); err != nil {
		return err
	}

	// Sessions live in Redis when one is configured; the in-memory store is
	// the single-instance fallback.
	var store session.Store
	healthchecks := []func(context.Context) error{pg.Healthcheck(pool)}
	if cfg.Redis.ConnectionURL != "" {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		store = session.NewRedisStore(client)
		healthchecks = append(healthchecks, redis.Healthcheck(client))
	} else {
		memStore := session.NewMemoryStore(cfg.Session.CleanupInterval)
		defer func() { _ = memStore.Close() }()
		store = memStore
	}
	sessions := session.NewManager(store, cfg.Session)

	verifier, err := webhook.NewVerifier(cfg.Polar.WebhookSecret)
	if err != nil {
		return err
	}

	dir := directory.NewService(directory.NewPGStorage(pool))
	flow := auth.NewFlow(auth.NewGoogleAdapter(cfg.Google), dir, log)

	billing := subscription.NewPolarProvider(polar.NewClient(cfg.Polar))
	resolver := subscription.NewResolver(billing, log)
	dispatcher := subscription.NewDispatcher(billing, log,
		subscription.WithSettleDelay(cfg.SettleDelay))

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(collector.Middleware)

	r.Get("/healthz", httpserver.HealthCheckHandler(log, healthchecks...))
	r.Method(http.MethodGet, "/metrics", metrics.Handler(registry))
	r.Mount("/", shop.New(cfg.Shop, sessions, flow, resolver, dispatcher, verifier, log).Router())

	return httpserver.New(cfg.Server, log).Run(ctx, r)
}
