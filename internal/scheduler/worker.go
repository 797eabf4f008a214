package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"dsa_portal_backend/internal/approval/client"
	"dsa_portal_backend/internal/approval/outbox"
	"dsa_portal_backend/platform/config"
	"dsa_portal_backend/platform/logger"
)

// Worker consumes approval staging tasks and performs the external call.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    *logger.Logger
}

// NewWorker creates the asynq worker bound to the staging queue.
func NewWorker(cfg config.SchedulerConfig, approvalClient *client.Client, box *outbox.Outbox, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}
	concurrency := cfg.GetAsynqConcurrency()
	if concurrency <= 0 {
		concurrency = 5
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{queue: 1},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskApprovalStageDue, stageHandler(approvalClient, box, log))

	return &Worker{server: server, mux: mux, log: log}, nil
}

// Run starts the worker and blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		w.log.Info("shutting down staging worker")
		w.server.Shutdown()
	}()

	w.log.Info("staging worker started")
	return w.server.Run(w.mux)
}

// stageHandler executes one outbox entry against the Approval Service. A
// returned error makes asynq retry the task; the outbox keeps the attempt
// history either way.
func stageHandler(approvalClient *client.Client, box *outbox.Outbox, log *logger.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		payload, err := ParseApprovalStageDuePayload(task)
		if err != nil {
			return fmt.Errorf("parse staging payload: %w", err)
		}
		entryID, err := uuid.Parse(payload.EntryID)
		if err != nil {
			return fmt.Errorf("parse staging entry id: %w", err)
		}

		entry, err := box.Get(ctx, entryID)
		if err != nil {
			return err
		}
		if entry.Status == outbox.StatusSucceeded {
			return nil
		}

		if err := approvalClient.Stage(ctx, entry.DsaID, entry.Products); err != nil {
			if markErr := box.MarkFailed(ctx, entry.ID, err.Error()); markErr != nil {
				log.Error("failed to record staging failure", "entryId", entry.ID, "error", markErr)
			}
			return err
		}

		if err := box.MarkSucceeded(ctx, entry.ID); err != nil {
			return err
		}

		log.Info("staged DSA products for approval", "dsaId", entry.DsaID, "products", entry.Products)
		return nil
	}
}
