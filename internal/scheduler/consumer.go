package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Workflow executes one claimed job. A returned error means the execution
// failed before reaching a terminal decision; the consumer's own error
// handling requeues it, independent of any business retry schedule the
// workflow consults internally.
type Workflow interface {
	Execute(ctx context.Context, process ProcessTracker) error
}

// Consumer polls the store for due jobs and runs their workflows.
type Consumer struct {
	log       *slog.Logger
	store     Store
	workflows map[string]Workflow
	workerID  string

	batchSize       int
	interval        time.Duration
	sweepInterval   time.Duration
	lease           time.Duration
	maxErrorRetries int
}

func NewConsumer(log *slog.Logger, store Store, workerID string) *Consumer {
	return &Consumer{
		log:             log,
		store:           store,
		workflows:       make(map[string]Workflow),
		workerID:        workerID,
		batchSize:       100,
		interval:        time.Second,
		sweepInterval:   time.Minute,
		lease:           30 * time.Second,
		maxErrorRetries: 5,
	}
}

// Register binds a workflow to the job name it executes.
func (c *Consumer) Register(name string, w Workflow) {
	c.workflows[name] = w
}

func (c *Consumer) Run(ctx context.Context) error {
	poll := time.NewTicker(c.interval)
	defer poll.Stop()
	sweep := time.NewTicker(c.sweepInterval)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("scheduler consumer stopping", "worker_id", c.workerID)
			return nil
		case <-sweep.C:
			released, err := c.store.ReleaseStale(ctx)
			if err != nil {
				c.log.Error("stale claim sweep failed", "err", err)
			} else if released > 0 {
				c.log.Warn("released stale claims", "count", released)
			}
		case <-poll.C:
			c.processDue(ctx)
		}
	}
}

func (c *Consumer) processDue(ctx context.Context) {
	processes, err := c.store.ClaimDue(ctx, c.workerID, c.batchSize, c.lease)
	if err != nil {
		c.log.Error("claim due jobs failed", "err", err)
		return
	}
	for _, process := range processes {
		workflow, ok := c.workflows[process.Name]
		if !ok {
			c.log.Error("no workflow registered", "name", process.Name, "process_id", process.ID)
			_ = c.store.FinishWithBusinessStatus(ctx, process, BusinessStatusGlobalFailure)
			continue
		}
		if err := workflow.Execute(ctx, process); err != nil {
			c.handleError(ctx, process, err)
		}
	}
}

// handleError is the store-tier retry policy for executions that failed
// before a terminal decision (crashes, lookup errors, malformed payloads).
// It shares the job's retry_count with the business schedule but follows its
// own backoff and budget.
func (c *Consumer) handleError(ctx context.Context, process ProcessTracker, err error) {
	c.log.Error("workflow execution failed",
		"process_id", process.ID, "name", process.Name, "retry_count", process.RetryCount, "err", err)

	if process.RetryCount >= c.maxErrorRetries {
		if ferr := c.store.FinishWithBusinessStatus(ctx, process, BusinessStatusGlobalFailure); ferr != nil {
			c.log.Error("failed to finish errored job", "process_id", process.ID, "err", ferr)
		}
		return
	}
	when := time.Now().UTC().Add(errorBackoff(process.RetryCount + 1))
	if rerr := c.store.RetryProcess(ctx, process, when); rerr != nil {
		c.log.Error("failed to requeue errored job", "process_id", process.ID, "err", rerr)
	}
}

// errorBackoff returns the requeue delay for error retry attempt n
// (1-indexed): doubling from 10s, capped at 5m.
func errorBackoff(attempt int) time.Duration {
	d := 10 * time.Second
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= 5*time.Minute {
			return 5 * time.Minute
		}
	}
	return d
}
