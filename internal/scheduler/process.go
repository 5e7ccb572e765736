// Package scheduler drives durable background work off the process_tracker
// table. Jobs are claimed atomically (one in-flight execution per job),
// executed by registered workflows, and either rescheduled or finished with a
// terminal business status.
package scheduler

import (
	"encoding/json"
	"time"
)

// Status is the job store's own execution status, distinct from the business
// status a workflow settles on.
type Status string

const (
	StatusNew        Status = "new"
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusFinish     Status = "finish"
)

// Terminal business status tags written by workflows. The first two are
// successful outcomes, not errors: the engine correctly declined to deliver,
// or gave up after exhausting its budget.
const (
	BusinessStatusResourceStatusMismatch = "RESOURCE_STATUS_MISMATCH"
	BusinessStatusRetriesExceeded        = "RETRIES_EXCEEDED"
	BusinessStatusCompleted              = "COMPLETED_BY_PT"
	BusinessStatusGlobalFailure          = "GLOBAL_FAILURE"
)

// ProcessTracker is one durable job row. TrackingData is opaque to the store
// and meaningful only to the owning workflow.
type ProcessTracker struct {
	ID             string
	Name           string
	TrackingData   json.RawMessage
	RetryCount     int
	ScheduleTime   time.Time
	Status         Status
	BusinessStatus string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
