package scheduler

import (
	"context"
	"time"
)

// Store is the persistence contract for process tracker jobs. All operations
// are single-row and atomic; ClaimDue guarantees at most one in-flight
// execution per job, so workflows perform no locking of their own.
type Store interface {
	// Enqueue persists a new job in new state.
	Enqueue(ctx context.Context, pt ProcessTracker) error

	// ClaimDue atomically claims up to limit due jobs, marks them
	// processing under a lease, and returns them.
	ClaimDue(ctx context.Context, workerID string, limit int, lease time.Duration) ([]ProcessTracker, error)

	// RetryProcess reschedules a claimed job: increments its retry count and
	// returns it to pending at the given time.
	RetryProcess(ctx context.Context, pt ProcessTracker, scheduleTime time.Time) error

	// FinishWithBusinessStatus moves a job to its terminal state with the
	// given business status tag. Finished jobs are never deleted.
	FinishWithBusinessStatus(ctx context.Context, pt ProcessTracker, businessStatus string) error

	// ReleaseStale returns jobs whose claim lease expired to pending so a
	// live worker re-executes them from the top.
	ReleaseStale(ctx context.Context) (int64, error)
}
