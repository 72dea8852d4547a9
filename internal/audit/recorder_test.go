package audit

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couponhub/dashboard/internal/shared"
)

type captureStore struct {
	mu      sync.Mutex
	records []Record
	ctxErr  error
	err     error
	panics  bool
}

func (s *captureStore) Insert(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panics {
		panic("boom")
	}
	s.ctxErr = ctx.Err()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func fixedClock() time.Time { return time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC) }

func TestRecordBuildsRedactedRecord(t *testing.T) {
	store := &captureStore{}
	rec := NewRecorder(store, nil, WithClock(fixedClock))

	rec.Record(context.Background(), Entry{
		ActorID:    "U1",
		Action:     ActionUpdate,
		EntityType: "Admin",
		EntityID:   "A1",
		Before:     map[string]any{"name": "old", "password_hash": "h1"},
		After:      map[string]any{"name": "new", "password_hash": "h2"},
		IP:         "203.0.113.9",
		UserAgent:  "curl/8",
	})

	require.Len(t, store.records, 1)
	got := store.records[0]
	assert.NotEmpty(t, got.ID)
	require.NotNil(t, got.ActorID)
	assert.Equal(t, "U1", *got.ActorID)
	assert.Equal(t, ActionUpdate, got.Action)
	assert.Equal(t, map[string]any{"name": "old"}, got.Before)
	assert.Equal(t, map[string]any{"name": "new"}, got.After)
	assert.Equal(t, "203.0.113.9", *got.IP)
	assert.Equal(t, "curl/8", *got.UserAgent)
	assert.Equal(t, fixedClock(), got.CreatedAt)
}

func TestRecordNilSnapshotsAndMissingActor(t *testing.T) {
	store := &captureStore{}
	NewRecorder(store, nil).Record(context.Background(), Entry{
		Action:     ActionCreate,
		EntityType: "Merchant",
		EntityID:   "M1",
		After:      map[string]any{"name": "Acme"},
	})
	require.Len(t, store.records, 1)
	got := store.records[0]
	assert.Nil(t, got.ActorID)
	assert.Nil(t, got.Before)
	assert.Nil(t, got.IP)
	assert.Nil(t, got.UserAgent)
}

func TestRecordFillsProvenanceFromContext(t *testing.T) {
	store := &captureStore{}
	ctx := shared.ContextWithProvenance(context.Background(), shared.Provenance{IP: "198.51.100.7", UserAgent: "dashboard-ui"})
	NewRecorder(store, nil).Record(ctx, Entry{Action: ActionDelete, EntityType: "Banner", EntityID: "B1"})
	require.Len(t, store.records, 1)
	assert.Equal(t, "198.51.100.7", *store.records[0].IP)
	assert.Equal(t, "dashboard-ui", *store.records[0].UserAgent)
}

func TestRecordSurvivesCancelledRequest(t *testing.T) {
	store := &captureStore{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	NewRecorder(store, nil).Record(ctx, Entry{Action: ActionCreate, EntityType: "Coupon", EntityID: "C1"})
	require.Len(t, store.records, 1)
	assert.NoError(t, store.ctxErr)
}

func TestRecordFailureIsLoggedAndCounted(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "audit_failures_test_total"})
	store := &captureStore{err: errors.New("db down")}

	rec := NewRecorder(store, logger, WithFailureCounter(counter))
	assert.NotPanics(t, func() {
		rec.Record(context.Background(), Entry{
			Action:     ActionUpdate,
			EntityType: "Coupon",
			EntityID:   "C9",
			After:      map[string]any{"code": "SAVE10"},
		})
	})

	assert.Equal(t, 1.0, counterValue(t, counter))
	assert.Contains(t, logs.String(), "audit record failed")
	assert.Contains(t, logs.String(), "C9")
	assert.NotContains(t, logs.String(), "SAVE10", "snapshots are never logged")
}

func TestRecordRecoversFromStorePanic(t *testing.T) {
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "audit_panics_test_total"})
	rec := NewRecorder(&captureStore{panics: true}, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), WithFailureCounter(counter))
	assert.NotPanics(t, func() {
		rec.Record(context.Background(), Entry{Action: ActionDelete, EntityType: "Merchant", EntityID: "M1"})
	})
	assert.Equal(t, 1.0, counterValue(t, counter))
}

func TestNilRecorderIsNoop(t *testing.T) {
	var rec *Recorder
	assert.NotPanics(t, func() { rec.Record(context.Background(), Entry{}) })
}
