package jobs

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/couponhub/dashboard/internal/audit"
)

const auditMaxRetry = 10

// Enqueuer is the subset of asynq.Client used by the dispatcher.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AuditDispatcher is an audit.Store that hands records to the worker.
type AuditDispatcher struct {
	enqueuer Enqueuer
}

// NewAuditDispatcher constructs a dispatcher over enqueuer.
func NewAuditDispatcher(enqueuer Enqueuer) *AuditDispatcher {
	return &AuditDispatcher{enqueuer: enqueuer}
}

// Insert enqueues rec. The record id doubles as the task id so a record is queued at most once.
func (d *AuditDispatcher) Insert(ctx context.Context, rec audit.Record) error {
	task, err := NewAuditRecordTask(rec)
	if err != nil {
		return err
	}
	_, err = d.enqueuer.EnqueueContext(ctx, task,
		asynq.Queue(QueueAudit),
		asynq.TaskID(rec.ID.String()),
		asynq.MaxRetry(auditMaxRetry),
	)
	if err != nil {
		return fmt.Errorf("jobs: enqueue audit record %s: %w", rec.ID, err)
	}
	return nil
}

var _ audit.Store = (*AuditDispatcher)(nil)
