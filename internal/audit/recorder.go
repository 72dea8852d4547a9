package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/couponhub/dashboard/internal/shared"
)

const defaultWriteTimeout = 5 * time.Second

// Store persists audit records.
type Store interface {
	Insert(ctx context.Context, rec Record) error
}

// Recorder writes audit records on a best-effort basis. A failed write is
// logged and counted but never reported to the caller.
type Recorder struct {
	store    Store
	logger   *slog.Logger
	now      func() time.Time
	timeout  time.Duration
	failures prometheus.Counter
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock overrides the record timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// WithTimeout bounds a single store write.
func WithTimeout(d time.Duration) Option {
	return func(r *Recorder) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithFailureCounter increments c on every failed write.
func WithFailureCounter(c prometheus.Counter) Option {
	return func(r *Recorder) { r.failures = c }
}

// NewRecorder constructs a recorder over store.
func NewRecorder(store Store, logger *slog.Logger, opts ...Option) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Recorder{
		store:   store,
		logger:  logger,
		now:     time.Now,
		timeout: defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record redacts and persists one audit entry. It is safe to call after the
// request context is cancelled.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	if r == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			r.fail(e, fmt.Errorf("audit: panic: %v", p))
		}
	}()

	if r.store == nil {
		r.fail(e, fmt.Errorf("audit: store not configured"))
		return
	}

	prov := shared.ProvenanceFromContext(ctx)
	if e.IP == "" {
		e.IP = prov.IP
	}
	if e.UserAgent == "" {
		e.UserAgent = prov.UserAgent
	}

	rec := Record{
		ID:         uuid.New(),
		ActorID:    optional(e.ActorID),
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Before:     Snapshot(e.Before),
		After:      Snapshot(e.After),
		IP:         optional(e.IP),
		UserAgent:  optional(e.UserAgent),
		CreatedAt:  r.now().UTC(),
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()
	if err := r.store.Insert(writeCtx, rec); err != nil {
		r.fail(e, err)
	}
}

func (r *Recorder) fail(e Entry, err error) {
	if r.failures != nil {
		r.failures.Inc()
	}
	r.logger.Error("audit record failed",
		slog.String("entity_type", e.EntityType),
		slog.String("entity_id", e.EntityID),
		slog.String("action", string(e.Action)),
		slog.Any("error", err),
	)
}
