package merchants

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/couponhub/dashboard/internal/audit"
	"github.com/couponhub/dashboard/internal/auth"
	"github.com/couponhub/dashboard/internal/rbac"
	"github.com/couponhub/dashboard/internal/shared"
)

// Service implements merchant operations.
type Service struct {
	repo     Repository
	recorder *audit.Recorder
	now      func() time.Time
}

// NewService constructs the merchant service.
func NewService(repo Repository, recorder *audit.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder, now: time.Now}
}

// List returns one page of merchants.
func (s *Service) List(ctx context.Context, guard *auth.Guard, page shared.Page) (shared.Paged[Merchant], error) {
	if _, err := guard.RequireCapability(rbac.CapMerchantsRead); err != nil {
		return shared.Paged[Merchant]{}, err
	}
	page = page.Normalize()
	rows, err := s.repo.List(ctx, page.Size+1, page.Offset())
	if err != nil {
		return shared.Paged[Merchant]{}, err
	}
	return shared.Paginate(rows, page), nil
}

// Get returns one merchant.
func (s *Service) Get(ctx context.Context, guard *auth.Guard, id string) (Merchant, error) {
	if _, err := guard.RequireCapability(rbac.CapMerchantsRead); err != nil {
		return Merchant{}, err
	}
	return s.repo.Get(ctx, id)
}

// Create stores a new merchant.
func (s *Service) Create(ctx context.Context, guard *auth.Guard, in Input) (Merchant, error) {
	actor, err := guard.RequireCapability(rbac.CapMerchantsWrite)
	if err != nil {
		return Merchant{}, err
	}
	if err := validate(in); err != nil {
		return Merchant{}, err
	}
	now := s.now().UTC()
	created, err := s.repo.Create(ctx, in.apply(Merchant{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}))
	if err != nil {
		return Merchant{}, err
	}
	s.recorder.Record(ctx, audit.Entry{
		ActorID:    actor.ID,
		Action:     audit.ActionCreate,
		EntityType: EntityType,
		EntityID:   created.ID,
		After:      audit.Fields(created),
	})
	return created, nil
}

// Update replaces the writable fields of a merchant.
func (s *Service) Update(ctx context.Context, guard *auth.Guard, id string, in Input) (Merchant, error) {
	actor, err := guard.RequireCapability(rbac.CapMerchantsWrite)
	if err != nil {
		return Merchant{}, err
	}
	if err := validate(in); err != nil {
		return Merchant{}, err
	}
	before, after, err := s.repo.Update(ctx, id, func(current Merchant) (Merchant, error) {
		next := in.apply(current)
		next.UpdatedAt = s.now().UTC()
		return next, nil
	})
	if err != nil {
		return Merchant{}, err
	}
	s.recorder.Record(ctx, audit.Entry{
		ActorID:    actor.ID,
		Action:     audit.ActionUpdate,
		EntityType: EntityType,
		EntityID:   id,
		Before:     audit.Fields(before),
		After:      audit.Fields(after),
	})
	return after, nil
}

// Delete removes a merchant.
func (s *Service) Delete(ctx context.Context, guard *auth.Guard, id string) error {
	actor, err := guard.RequireCapability(rbac.CapMerchantsWrite)
	if err != nil {
		return err
	}
	before, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.recorder.Record(ctx, audit.Entry{
		ActorID:    actor.ID,
		Action:     audit.ActionDelete,
		EntityType: EntityType,
		EntityID:   id,
		Before:     audit.Fields(before),
	})
	return nil
}
