package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dsa_portal_backend/internal/adapters"
	"dsa_portal_backend/internal/approval"
	approvalservice "dsa_portal_backend/internal/approval/service"
	"dsa_portal_backend/internal/dsa"
	dsadomain "dsa_portal_backend/internal/dsa/domain"
	dsarepo "dsa_portal_backend/internal/dsa/repository"
	apphttp "dsa_portal_backend/internal/http"
	"dsa_portal_backend/internal/http/router"
	"dsa_portal_backend/internal/leads"
	leadsdomain "dsa_portal_backend/internal/leads/domain"
	"dsa_portal_backend/internal/scheduler"
	"dsa_portal_backend/migrations"
	"dsa_portal_backend/platform/config"
	"dsa_portal_backend/platform/db"
	"dsa_portal_backend/platform/logger"
	"dsa_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Shared validator instance for dependency injection
	val := validator.New()
	registerEnums(val, log)

	// Task queue client for staging dispatch. Without Redis the outbox
	// dispatcher in the worker binary is the only staging path.
	stagingQueue, closeQueue := initStagingQueue(cfg, log)
	if closeQueue != nil {
		defer closeQueue()
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	var enqueuer approvalservice.StageEnqueuer
	if stagingQueue != nil {
		enqueuer = stagingQueue
	}

	dsaDirectory := adapters.NewDsaDirectoryAdapter(dsarepo.New(pool))
	approvalModule := approval.NewModule(pool, cfg, enqueuer, dsaDirectory, val, log)

	// The approval module stages product sets whenever DSA products change.
	dsaModule := dsa.NewModule(pool, approvalModule.Service(), val, log)
	leadsModule := leads.NewModule(pool, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: db.NewPoolAdapter(pool),
		Modules: []apphttp.Module{
			leadsModule,
			dsaModule,
			approvalModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func registerEnums(val *validator.Validator, log *logger.Logger) {
	registrations := map[string][]string{
		"product_type": leadsdomain.ProductTypeValues(),
		"lead_status":  leadsdomain.LeadStatusValues(),
		"dsa_status":   dsadomain.StatusValues(),
	}
	for tag, values := range registrations {
		if err := val.RegisterEnum(tag, values...); err != nil {
			log.Error("failed to register validation tag", "tag", tag, "error", err)
			panic("failed to register validation tag: " + err.Error())
		}
	}
}

func initStagingQueue(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; staging dispatch falls back to the outbox sweep")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize staging queue client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
