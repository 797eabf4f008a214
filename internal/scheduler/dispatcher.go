package scheduler

import (
	"context"
	"time"

	"dsa_portal_backend/internal/approval/outbox"
	"dsa_portal_backend/platform/logger"
)

const (
	dispatchInterval = 2 * time.Second
	dispatchBatch    = 50
)

// Dispatcher sweeps the staging outbox and feeds entries into the task queue.
// It is the safety net behind the best-effort enqueue on the write path:
// entries whose enqueue was lost, and stale in-flight entries, get picked up
// here.
type Dispatcher struct {
	box    *outbox.Outbox
	client *Client
	log    *logger.Logger
}

// NewDispatcher creates a new outbox dispatcher.
func NewDispatcher(box *outbox.Outbox, client *Client, log *logger.Logger) *Dispatcher {
	return &Dispatcher{box: box, client: client, log: log}
}

// Run polls the outbox until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	d.log.Info("staging outbox dispatcher started")

	ticker := time.NewTicker(dispatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.log.Info("staging outbox dispatcher stopped")
			return
		case <-ticker.C:
			d.dispatchBatch(ctx)
		}
	}
}

func (d *Dispatcher) dispatchBatch(ctx context.Context) {
	entries, err := d.box.ClaimPending(ctx, dispatchBatch)
	if err != nil {
		d.log.Error("failed to claim staging entries", "error", err)
		return
	}

	for _, entry := range entries {
		if err := d.client.EnqueueStage(ctx, entry.ID); err != nil {
			d.log.Error("failed to enqueue staging entry", "entryId", entry.ID, "error", err)
			// Return the entry to the pool so the next sweep retries it.
			if markErr := d.box.MarkPending(ctx, entry.ID); markErr != nil {
				d.log.Error("failed to release staging entry", "entryId", entry.ID, "error", markErr)
			}
			continue
		}
		d.log.Debug("dispatched staging entry", "entryId", entry.ID, "dsaId", entry.DsaID)
	}
}
