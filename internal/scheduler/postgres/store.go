package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/offsoc/hyperswitch/internal/scheduler"
)

// Store persists process tracker jobs. ClaimDue relies on row locks with
// SKIP LOCKED so concurrent workers never claim the same job.
type Store struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewStore(log *slog.Logger, pool *pgxpool.Pool) *Store {
	return &Store{log: log, pool: pool}
}

func (s *Store) Enqueue(ctx context.Context, pt scheduler.ProcessTracker) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO process_tracker (id, name, tracking_data, retry_count, schedule_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 'new', now(), now())
	`, pt.ID, pt.Name, pt.TrackingData, pt.RetryCount, pt.ScheduleTime)
	return err
}

func (s *Store) ClaimDue(ctx context.Context, workerID string, limit int, lease time.Duration) ([]scheduler.ProcessTracker, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	rows, err := tx.Query(ctx, `
		SELECT id, name, tracking_data, retry_count, schedule_time, status, coalesce(business_status, ''), created_at, updated_at
		FROM process_tracker
		WHERE status IN ('new', 'pending') AND schedule_time <= now()
		ORDER BY schedule_time
		FOR UPDATE SKIP LOCKED
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var processes []scheduler.ProcessTracker
	for rows.Next() {
		var pt scheduler.ProcessTracker
		if err := rows.Scan(&pt.ID, &pt.Name, &pt.TrackingData, &pt.RetryCount, &pt.ScheduleTime,
			&pt.Status, &pt.BusinessStatus, &pt.CreatedAt, &pt.UpdatedAt); err != nil {
			return nil, err
		}
		processes = append(processes, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(processes) == 0 {
		return nil, tx.Commit(ctx)
	}

	ids := make([]string, 0, len(processes))
	for _, pt := range processes {
		ids = append(ids, pt.ID)
	}
	// make_interval: a text cast of lease.String() would read "1m0s" as one
	// month, postgres intervals spell minutes differently than Go durations.
	_, err = tx.Exec(ctx, `
		UPDATE process_tracker
		SET status = 'processing', worker_id = $1, lease_until = now() + make_interval(secs => $2), updated_at = now()
		WHERE id = ANY($3)
	`, workerID, lease.Seconds(), ids)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return processes, nil
}

func (s *Store) RetryProcess(ctx context.Context, pt scheduler.ProcessTracker, scheduleTime time.Time) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE process_tracker
		SET status = 'pending', retry_count = retry_count + 1, schedule_time = $2, worker_id = NULL, lease_until = NULL, updated_at = now()
		WHERE id = $1
	`, pt.ID, scheduleTime)
	return err
}

func (s *Store) FinishWithBusinessStatus(ctx context.Context, pt scheduler.ProcessTracker, businessStatus string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE process_tracker
		SET status = 'finish', business_status = $2, worker_id = NULL, lease_until = NULL, updated_at = now()
		WHERE id = $1
	`, pt.ID, businessStatus)
	return err
}

func (s *Store) ReleaseStale(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE process_tracker
		SET status = 'pending', worker_id = NULL, lease_until = NULL, updated_at = now()
		WHERE status = 'processing' AND lease_until < now()
	`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
