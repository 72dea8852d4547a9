package auth

import (
	"context"
	"sync"
	"time"

	"github.com/couponhub/dashboard/internal/shared"
)

type memActorStore struct {
	mu      sync.Mutex
	actors  map[string]Credentials
	lookups int
	touched map[string]time.Time
}

func newMemActorStore(creds ...Credentials) *memActorStore {
	s := &memActorStore{actors: make(map[string]Credentials), touched: make(map[string]time.Time)}
	for _, c := range creds {
		s.actors[c.ID] = c
	}
	return s
}

func (s *memActorStore) FindByID(ctx context.Context, id string) (Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	c, ok := s.actors[id]
	if !ok {
		return Actor{}, shared.ErrNotFound
	}
	return c.Actor, nil
}

func (s *memActorStore) FindByEmail(ctx context.Context, email string) (Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	for _, c := range s.actors {
		if shared.NormalizeEmail(c.Email) == shared.NormalizeEmail(email) {
			return c, nil
		}
	}
	return Credentials{}, shared.ErrNotFound
}

func (s *memActorStore) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched[id] = at
	return nil
}
