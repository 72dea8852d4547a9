package coupons

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/couponhub/dashboard/internal/lifecycle"
	"github.com/couponhub/dashboard/internal/shared"
)

type memRepo struct {
	mu     sync.Mutex
	rows   map[string]Coupon
	calls  int
	writes int
}

func newMemRepo(cs ...Coupon) *memRepo {
	r := &memRepo{rows: make(map[string]Coupon)}
	for _, c := range cs {
		r.rows[c.ID] = c
	}
	return r
}

func (r *memRepo) List(ctx context.Context, f Filter, limit, offset int) ([]Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	var all []Coupon
	for _, c := range r.rows {
		if f.MerchantID != "" && c.MerchantID != f.MerchantID {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if offset >= len(all) {
		return nil, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (r *memRepo) Get(ctx context.Context, id string) (Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	c, ok := r.rows[id]
	if !ok {
		return Coupon{}, fmt.Errorf("coupon: %w", shared.ErrNotFound)
	}
	return c, nil
}

func (r *memRepo) Create(ctx context.Context, c Coupon) (Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.writes++
	r.rows[c.ID] = c
	return c, nil
}

func (r *memRepo) Update(ctx context.Context, id string, mutate func(Coupon) (Coupon, error)) (Coupon, Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	before, ok := r.rows[id]
	if !ok {
		return Coupon{}, Coupon{}, fmt.Errorf("coupon: %w", shared.ErrNotFound)
	}
	after, err := mutate(before)
	if err != nil {
		return Coupon{}, Coupon{}, err
	}
	r.writes++
	r.rows[id] = after
	return before, after, nil
}

func (r *memRepo) Transition(ctx context.Context, id string, next func(lifecycle.CouponStatus) (lifecycle.CouponStatus, error), at time.Time) (Coupon, Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	before, ok := r.rows[id]
	if !ok {
		return Coupon{}, Coupon{}, fmt.Errorf("coupon: %w", shared.ErrNotFound)
	}
	status, err := next(before.Status)
	if err != nil {
		return Coupon{}, Coupon{}, err
	}
	if status == before.Status {
		return before, before, nil
	}
	after := before
	after.Status = status
	after.UpdatedAt = at
	r.writes++
	r.rows[id] = after
	return before, after, nil
}

func (r *memRepo) Delete(ctx context.Context, id string) (Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	c, ok := r.rows[id]
	if !ok {
		return Coupon{}, fmt.Errorf("coupon: %w", shared.ErrNotFound)
	}
	r.writes++
	delete(r.rows, id)
	return c, nil
}
