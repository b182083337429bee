// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the UzEvently booking gateway.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from the environment (and an optional .env file).
//  3. Open session storage (Redis or memory).
//  4. Open the booking store (memory, PostgreSQL + migrations, or SQLite) and seed it.
//  5. Connect to RabbitMQ when configured.
//  6. Wire services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/uzevently/internal/api"
	"github.com/taibuivan/uzevently/internal/auth"
	"github.com/taibuivan/uzevently/internal/backend"
	"github.com/taibuivan/uzevently/internal/booking"
	"github.com/taibuivan/uzevently/internal/catalog"
	"github.com/taibuivan/uzevently/internal/checkout"
	"github.com/taibuivan/uzevently/internal/payment"
	"github.com/taibuivan/uzevently/internal/platform/config"
	"github.com/taibuivan/uzevently/internal/platform/constants"
	"github.com/taibuivan/uzevently/internal/platform/kv"
	"github.com/taibuivan/uzevently/internal/platform/migration"
	pgstore "github.com/taibuivan/uzevently/internal/platform/postgres"
	"github.com/taibuivan/uzevently/internal/platform/rabbitmq"
	redisstore "github.com/taibuivan/uzevently/internal/platform/redis"
	"github.com/taibuivan/uzevently/internal/platform/sec"
	"github.com/taibuivan/uzevently/internal/receipt"
	"github.com/taibuivan/uzevently/internal/wizard"
)

func main() {
	envFile := flag.String("env", ".env", "optional dotenv file merged into the environment")
	flag.Parse()

	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load(*envFile)
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("booking_store", cfg.BookingStore),
		slog.String("timezone", cfg.Timezone),
	)

	// Startup gets a deadline so misconfiguration fails fast.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	var checks []api.HealthCheck

	// ── 3. Session Storage ────────────────────────────────────────────────
	var storage kv.Storage = kv.NewMemory()
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()

		storage = kv.NewRedis(rdb)
		checks = append(checks, api.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}})
	} else {
		log.Warn("session_storage_in_memory", slog.String("reason", "REDIS_URL not set"))
	}

	// ── 4. Booking Store ──────────────────────────────────────────────────
	var store booking.Store
	switch cfg.BookingStore {
	case config.BookingStorePostgres:
		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing_postgres_pool")
			pool.Close()
		}()

		must(log, migration.RunUp(cfg.DatabaseURL, booking.Migrations, booking.MigrationsDir, log), "run migrations")

		store = booking.NewPostgresStore(pool)
		checks = append(checks, api.HealthCheck{Name: "postgres", Check: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		}})

	case config.BookingStoreSQLite:
		sqlite, err := booking.OpenSQLiteStore(startupCtx, cfg.SQLitePath)
		must(log, err, "open sqlite booking store")
		defer func() {
			log.Info("closing_sqlite_store")
			if cerr := sqlite.Close(); cerr != nil {
				log.Error("sqlite_close_failed", slog.Any("error", cerr))
			}
		}()

		store = sqlite
		checks = append(checks, api.HealthCheck{Name: "sqlite", Check: sqlite.Ping})

	default:
		store = booking.NewMemoryStore()
	}

	if cfg.SeedBookings {
		must(log, booking.Seed(startupCtx, store, time.Now()), "seed bookings")
	}

	// ── 5. Events ─────────────────────────────────────────────────────────
	var publisher checkout.Publisher
	if cfg.AMQPURL != "" {
		broker, err := rabbitmq.Dial(cfg.AMQPURL, cfg.AMQPExchange, log)
		must(log, err, "connect to rabbitmq")
		defer func() {
			log.Info("closing_rabbitmq_publisher")
			if cerr := broker.Close(); cerr != nil {
				log.Error("rabbitmq_close_failed", slog.Any("error", cerr))
			}
		}()

		publisher = broker
		checks = append(checks, api.HealthCheck{Name: "rabbitmq", Check: broker.Ping})
	}

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	tokens, err := sec.NewClientTokens(cfg.SessionSecret, constants.ClientTokenIssuer, constants.ClientCookieTTL)
	must(log, err, "initialize client tokens")

	backendClient := backend.New(backend.Config{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.BackendTimeout,
		Logger:  log,
	})

	bookingService := booking.NewService(store, cfg.Location(), log)

	catalogService, err := catalog.NewService(bookingService, log)
	must(log, err, "load venue catalogue")

	checkoutService := checkout.NewService(checkout.Dependencies{
		Bookings:  bookingService,
		Listings:  catalogService,
		Provider:  payment.NewMockProvider(cfg.PaymentDelay),
		Renderer:  receipt.NewPDFRenderer(cfg.Location()),
		Publisher: publisher,
		Logger:    log,
		Retention: cfg.CheckoutRetention,
	})

	authService := auth.NewService(backendClient, wizard.NewStore(storage), cfg.AdminPhone, log)

	liveness, readiness := api.NewHealthHandlers(checks, log)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	server := api.NewServer(rootCtx, cfg, log, api.Identity{Tokens: tokens, Storage: storage}, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Catalog:   catalog.NewHandler(catalogService),
		Booking:   booking.NewHandler(bookingService),
		Checkout:  checkout.NewHandler(checkoutService),
	})

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
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
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	exitCode := 0
	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		exitCode = 1
	}

	paymentsCtx, paymentsCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer paymentsCancel()
	if err := checkoutService.Shutdown(paymentsCtx); err != nil {
		log.Error("checkout_shutdown_failed", slog.Any("error", err))
		exitCode = 1
	}

	if exitCode != 0 {
		os.Exit(exitCode)
	}

	log.Info("server_stopped_cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
