package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	approvalclient "dsa_portal_backend/internal/approval/client"
	"dsa_portal_backend/internal/approval/outbox"
	"dsa_portal_backend/internal/scheduler"
	"dsa_portal_backend/platform/config"
	"dsa_portal_backend/platform/db"
	"dsa_portal_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting staging worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	box := outbox.New(pool)
	apiClient := approvalclient.New(cfg, log)

	queueClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize staging queue client", "error", err)
		panic("failed to initialize staging queue client: " + err.Error())
	}
	defer func() { _ = queueClient.Close() }()

	dispatcher := scheduler.NewDispatcher(box, queueClient, log)
	go dispatcher.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, apiClient, box, log)
	if err != nil {
		log.Error("failed to initialize staging worker", "error", err)
		panic("failed to initialize staging worker: " + err.Error())
	}

	if err := worker.Run(ctx); err != nil {
		log.Error("staging worker stopped", "error", err)
		panic("staging worker stopped: " + err.Error())
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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
