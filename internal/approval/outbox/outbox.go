// Package outbox persists approval staging requests so the external call can
// be retried independently of the DSA write that triggered it.
package outbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dsa_portal_backend/platform/apperr"
)

// Entry statuses.
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusSucceeded  = "SUCCEEDED"
	StatusFailed     = "FAILED"
)

// staleAfter is how long a PROCESSING row may sit before the dispatcher
// reclaims it (covers lost queue tasks and crashed workers).
const staleAfter = 5 * time.Minute

// Entry is one queued staging request.
type Entry struct {
	ID        uuid.UUID
	DsaID     uuid.UUID
	Products  []string
	Status    string
	Attempts  int
	LastError *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Outbox stores staging entries in PostgreSQL.
type Outbox struct {
	pool *pgxpool.Pool
}

// New creates a new staging outbox.
func New(pool *pgxpool.Pool) *Outbox {
	return &Outbox{pool: pool}
}

// Enqueue inserts a new pending entry.
func (o *Outbox) Enqueue(ctx context.Context, dsaID uuid.UUID, products []string) (Entry, error) {
	entry := Entry{
		ID:       uuid.New(),
		DsaID:    dsaID,
		Products: products,
		Status:   StatusPending,
	}

	query := `
		INSERT INTO approval_staging_outbox (id, dsa_id, products, status, attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, NOW(), NOW())
		RETURNING created_at, updated_at`

	err := o.pool.QueryRow(ctx, query, entry.ID, entry.DsaID, entry.Products, entry.Status).
		Scan(&entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("enqueue staging entry: %w", err)
	}
	return entry, nil
}

// Get retrieves a single entry.
func (o *Outbox) Get(ctx context.Context, id uuid.UUID) (Entry, error) {
	query := `
		SELECT id, dsa_id, products, status, attempts, last_error, created_at, updated_at
		FROM approval_staging_outbox WHERE id = $1`

	var entry Entry
	err := o.pool.QueryRow(ctx, query, id).Scan(
		&entry.ID, &entry.DsaID, &entry.Products, &entry.Status, &entry.Attempts,
		&entry.LastError, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, apperr.NotFound("staging entry not found")
		}
		return Entry{}, fmt.Errorf("get staging entry: %w", err)
	}
	return entry, nil
}

// ClaimPending atomically claims up to limit dispatchable entries, marking
// them PROCESSING. Pending rows and stale PROCESSING rows are both claimed;
// SKIP LOCKED keeps concurrent dispatchers from double-claiming.
func (o *Outbox) ClaimPending(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		UPDATE approval_staging_outbox
		SET status = $1, updated_at = NOW()
		WHERE id IN (
			SELECT id FROM approval_staging_outbox
			WHERE status = $2 OR (status = $1 AND updated_at < NOW() - $3::interval)
			ORDER BY created_at
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, dsa_id, products, status, attempts, last_error, created_at, updated_at`

	rows, err := o.pool.Query(ctx, query, StatusProcessing, StatusPending, staleAfter.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("claim pending staging entries: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.DsaID, &entry.Products, &entry.Status, &entry.Attempts,
			&entry.LastError, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan staging entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// MarkPending returns an entry to the dispatch pool.
func (o *Outbox) MarkPending(ctx context.Context, id uuid.UUID) error {
	return o.setStatus(ctx, id, StatusPending, nil)
}

// MarkSucceeded records a completed staging call.
func (o *Outbox) MarkSucceeded(ctx context.Context, id uuid.UUID) error {
	return o.setStatus(ctx, id, StatusSucceeded, nil)
}

// MarkFailed records a failed attempt. Failed entries stay visible for
// operators; the queue retries independently.
func (o *Outbox) MarkFailed(ctx context.Context, id uuid.UUID, cause string) error {
	query := `
		UPDATE approval_staging_outbox
		SET status = $2, attempts = attempts + 1, last_error = $3, updated_at = NOW()
		WHERE id = $1`

	tag, err := o.pool.Exec(ctx, query, id, StatusFailed, cause)
	if err != nil {
		return fmt.Errorf("mark staging entry failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("staging entry not found")
	}
	return nil
}

func (o *Outbox) setStatus(ctx context.Context, id uuid.UUID, status string, lastError *string) error {
	query := `
		UPDATE approval_staging_outbox
		SET status = $2, last_error = $3, updated_at = NOW()
		WHERE id = $1`

	tag, err := o.pool.Exec(ctx, query, id, status, lastError)
	if err != nil {
		return fmt.Errorf("update staging entry status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("staging entry not found")
	}
	return nil
}
