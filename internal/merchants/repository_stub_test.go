package merchants

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/couponhub/dashboard/internal/shared"
)

type memRepo struct {
	mu    sync.Mutex
	rows  map[string]Merchant
	calls int
	err   error
}

func newMemRepo(ms ...Merchant) *memRepo {
	r := &memRepo{rows: make(map[string]Merchant)}
	for _, m := range ms {
		r.rows[m.ID] = m
	}
	return r
}

func (r *memRepo) List(ctx context.Context, limit, offset int) ([]Merchant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	all := make([]Merchant, 0, len(r.rows))
	for _, m := range r.rows {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if offset >= len(all) {
		return nil, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}

func (r *memRepo) Get(ctx context.Context, id string) (Merchant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	m, ok := r.rows[id]
	if !ok {
		return Merchant{}, fmt.Errorf("merchant: %w", shared.ErrNotFound)
	}
	return m, nil
}

func (r *memRepo) Create(ctx context.Context, m Merchant) (Merchant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return Merchant{}, r.err
	}
	for _, existing := range r.rows {
		if existing.Slug == m.Slug {
			return Merchant{}, fmt.Errorf("merchant slug: %w", shared.ErrConflict)
		}
	}
	r.rows[m.ID] = m
	return m, nil
}

func (r *memRepo) Update(ctx context.Context, id string, mutate func(Merchant) (Merchant, error)) (Merchant, Merchant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	before, ok := r.rows[id]
	if !ok {
		return Merchant{}, Merchant{}, fmt.Errorf("merchant: %w", shared.ErrNotFound)
	}
	after, err := mutate(before)
	if err != nil {
		return Merchant{}, Merchant{}, err
	}
	r.rows[id] = after
	return before, after, nil
}

func (r *memRepo) Delete(ctx context.Context, id string) (Merchant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	m, ok := r.rows[id]
	if !ok {
		return Merchant{}, fmt.Errorf("merchant: %w", shared.ErrNotFound)
	}
	delete(r.rows, id)
	return m, nil
}
