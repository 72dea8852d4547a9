package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/couponhub/dashboard/internal/audit"
)

const (
	// QueueAudit carries audit records written in queue mode.
	QueueAudit = "audit"
	// TaskAuditRecord persists one audit record.
	TaskAuditRecord = "audit:record"
)

// NewAuditRecordTask wraps rec in an asynq task.
func NewAuditRecordTask(rec audit.Record) (*asynq.Task, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("jobs: encode audit record: %w", err)
	}
	return asynq.NewTask(TaskAuditRecord, data), nil
}

// HandleAuditRecordTask returns the worker handler that inserts queued records into store.
// A payload that cannot be decoded is dropped without retry.
func HandleAuditRecordTask(store audit.Store) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var rec audit.Record
		if err := json.Unmarshal(t.Payload(), &rec); err != nil {
			return fmt.Errorf("jobs: decode audit record: %v: %w", err, asynq.SkipRetry)
		}
		if rec.EntityType == "" || rec.EntityID == "" || rec.Action == "" {
			return fmt.Errorf("jobs: incomplete audit record %s: %w", rec.ID, asynq.SkipRetry)
		}
		return store.Insert(ctx, rec)
	}
}
