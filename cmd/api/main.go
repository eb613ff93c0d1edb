// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the department site HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/deptsite/internal/admin/account"
	"github.com/taibuivan/deptsite/internal/admin/activity"
	"github.com/taibuivan/deptsite/internal/admin/settings"
	"github.com/taibuivan/deptsite/internal/api"
	"github.com/taibuivan/deptsite/internal/core/category"
	"github.com/taibuivan/deptsite/internal/core/event"
	"github.com/taibuivan/deptsite/internal/core/research"
	"github.com/taibuivan/deptsite/internal/platform/config"
	"github.com/taibuivan/deptsite/internal/platform/constants"
	"github.com/taibuivan/deptsite/internal/platform/migration"
	pgstore "github.com/taibuivan/deptsite/internal/platform/postgres"
	redisstore "github.com/taibuivan/deptsite/internal/platform/redis"
	"github.com/taibuivan/deptsite/internal/platform/sec"
)

// purgeInterval is how often audit rows past the retention window are removed.
const purgeInterval = 24 * time.Hour

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	location, err := cfg.Location()
	must(log, err, "resolve site timezone")

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("timezone", location.String()),
		slog.Bool("research_atomic_writes", cfg.ResearchAtomicWrites),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Lives as long as the process; cancels subscribers and background jobs.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Token Service ──────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 7. Health handlers ────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	activityService := activity.NewService(activity.NewPostgresRepository(pool), cfg.ActivityRetentionDays, log)

	categoryService := category.NewService(category.NewPostgresRepository(pool), activityService, log)

	eventFeed := event.NewRedisChangeFeed(rdb, constants.ChannelEventChanges, log)
	eventService := event.NewService(event.NewPostgresRepository(pool), categoryService, eventFeed,
		activityService, location, log)

	crossRef := research.NewCrossRefClient(cfg.CrossRefBaseURL, cfg.CrossRefMailto, cfg.CrossRefTimeout)
	researchService := research.NewService(research.NewPostgresRepository(pool), crossRef,
		activityService, cfg.ResearchAtomicWrites, log)

	settingsService := settings.NewService(settings.NewPostgresRepository(pool, log), activityService, log)

	accountService := account.NewService(account.NewPostgresRepository(pool), tokens, activityService, log)

	go purgeActivity(appCtx, activityService, cfg.ActivityRetentionDays, log)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Account:   account.NewHandler(accountService),
		Category:  category.NewHandler(categoryService),
		Event:     event.NewHandler(eventService),
		Research:  research.NewHandler(researchService),
		Settings:  settings.NewHandler(settingsService),
		Activity:  activity.NewHandler(activityService),
	}

	server := api.NewServer(appCtx, cfg, log, tokens, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	// Stop SSE subscribers first so their connections do not hold shutdown open.
	appCancel()

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// purgeActivity removes audit rows older than the retention window once a day.
func purgeActivity(ctx context.Context, service *activity.Service, days int, log *slog.Logger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := service.CleanupOldLogs(ctx, days)
			if err != nil {
				log.Warn("activity_purge_failed", slog.Any("error", err))
				continue
			}
			log.Info("activity_purged", slog.Int64("deleted", deleted), slog.Int("older_than_days", days))
		}
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
