package coupons

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/couponhub/dashboard/internal/audit"
	"github.com/couponhub/dashboard/internal/auth"
	"github.com/couponhub/dashboard/internal/lifecycle"
	"github.com/couponhub/dashboard/internal/rbac"
	"github.com/couponhub/dashboard/internal/shared"
)

// Service implements coupon operations.
type Service struct {
	repo     Repository
	recorder *audit.Recorder
	now      func() time.Time
}

// NewService constructs the coupon service.
func NewService(repo Repository, recorder *audit.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder, now: time.Now}
}

// List returns one page of coupons.
func (s *Service) List(ctx context.Context, guard *auth.Guard, f Filter, page shared.Page) (shared.Paged[Coupon], error) {
	if _, err := guard.RequireCapability(rbac.CapCouponsRead); err != nil {
		return shared.Paged[Coupon]{}, err
	}
	page = page.Normalize()
	rows, err := s.repo.List(ctx, f, page.Size+1, page.Offset())
	if err != nil {
		return shared.Paged[Coupon]{}, err
	}
	return shared.Paginate(rows, page), nil
}

// Get returns one coupon.
func (s *Service) Get(ctx context.Context, guard *auth.Guard, id string) (Coupon, error) {
	if _, err := guard.RequireCapability(rbac.CapCouponsRead); err != nil {
		return Coupon{}, err
	}
	return s.repo.Get(ctx, id)
}

// Create stores a new coupon.
func (s *Service) Create(ctx context.Context, guard *auth.Guard, in Input) (Coupon, error) {
	actor, err := guard.RequireCapability(rbac.CapCouponsWrite)
	if err != nil {
		return Coupon{}, err
	}
	now := s.now().UTC()
	c, err := in.build(Coupon{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now})
	if err != nil {
		return Coupon{}, err
	}
	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return Coupon{}, err
	}
	s.record(ctx, actor, audit.ActionCreate, created.ID, nil, &created)
	return created, nil
}

// Update replaces every writable field, status included. Setting the status
// here bypasses the transition table on purpose.
func (s *Service) Update(ctx context.Context, guard *auth.Guard, id string, in Input) (Coupon, error) {
	actor, err := guard.RequireCapability(rbac.CapCouponsWrite)
	if err != nil {
		return Coupon{}, err
	}
	before, after, err := s.repo.Update(ctx, id, func(current Coupon) (Coupon, error) {
		next, err := in.build(current)
		if err != nil {
			return Coupon{}, err
		}
		next.UpdatedAt = s.now().UTC()
		return next, nil
	})
	if err != nil {
		return Coupon{}, err
	}
	s.record(ctx, actor, audit.ActionUpdate, id, &before, &after)
	return after, nil
}

// Expire moves a coupon to EXPIRED. Expiring an expired coupon succeeds.
func (s *Service) Expire(ctx context.Context, guard *auth.Guard, id string) (Coupon, error) {
	return s.apply(ctx, guard, id, lifecycle.ExpireCoupon{})
}

// Suppress moves a coupon to SUPPRESSED. Suppressing a suppressed coupon succeeds.
func (s *Service) Suppress(ctx context.Context, guard *auth.Guard, id string) (Coupon, error) {
	return s.apply(ctx, guard, id, lifecycle.SuppressCoupon{})
}

func (s *Service) apply(ctx context.Context, guard *auth.Guard, id string, ev lifecycle.CouponEvent) (Coupon, error) {
	actor, err := guard.RequireCapability(rbac.CapCouponsWrite)
	if err != nil {
		return Coupon{}, err
	}
	before, after, err := s.repo.Transition(ctx, id, func(current lifecycle.CouponStatus) (lifecycle.CouponStatus, error) {
		return lifecycle.ApplyCoupon(current, ev)
	}, s.now().UTC())
	if err != nil {
		return Coupon{}, err
	}
	s.record(ctx, actor, audit.ActionUpdate, id, &before, &after)
	return after, nil
}

// Delete removes a coupon.
func (s *Service) Delete(ctx context.Context, guard *auth.Guard, id string) error {
	actor, err := guard.RequireCapability(rbac.CapCouponsWrite)
	if err != nil {
		return err
	}
	before, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.record(ctx, actor, audit.ActionDelete, id, &before, nil)
	return nil
}

func (s *Service) record(ctx context.Context, actor auth.Actor, action audit.Action, id string, before, after *Coupon) {
	e := audit.Entry{ActorID: actor.ID, Action: action, EntityType: EntityType, EntityID: id}
	if before != nil {
		e.Before = audit.Fields(before)
	}
	if after != nil {
		e.After = audit.Fields(after)
	}
	s.recorder.Record(ctx, e)
}
