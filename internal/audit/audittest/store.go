// Package audittest provides an in-memory audit store for tests.
package audittest

import (
	"context"
	"sync"

	"github.com/couponhub/dashboard/internal/audit"
)

// Store keeps inserted records in memory. Setting Err makes every insert fail.
type Store struct {
	mu      sync.Mutex
	records []audit.Record
	Err     error
}

// Insert implements audit.Store.
func (s *Store) Insert(ctx context.Context, rec audit.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.records = append(s.records, rec)
	return nil
}

// Records returns a copy of everything inserted so far.
func (s *Store) Records() []audit.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]audit.Record(nil), s.records...)
}

// Recorder returns a recorder that writes into s.
func (s *Store) Recorder() *audit.Recorder {
	return audit.NewRecorder(s, nil)
}

var _ audit.Store = (*Store)(nil)
