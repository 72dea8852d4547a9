package banners

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/couponhub/dashboard/internal/audit"
	"github.com/couponhub/dashboard/internal/auth"
	"github.com/couponhub/dashboard/internal/rbac"
	"github.com/couponhub/dashboard/internal/shared"
)

// Service implements banner operations.
type Service struct {
	repo     Repository
	recorder *audit.Recorder
	now      func() time.Time
}

// NewService constructs the banner service.
func NewService(repo Repository, recorder *audit.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder, now: time.Now}
}

// List returns one page of banners, optionally for a single placement.
func (s *Service) List(ctx context.Context, guard *auth.Guard, placement string, page shared.Page) (shared.Paged[Banner], error) {
	if _, err := guard.RequireCapability(rbac.CapBannersRead); err != nil {
		return shared.Paged[Banner]{}, err
	}
	page = page.Normalize()
	rows, err := s.repo.List(ctx, placement, page.Size+1, page.Offset())
	if err != nil {
		return shared.Paged[Banner]{}, err
	}
	return shared.Paginate(rows, page), nil
}

// Get returns one banner.
func (s *Service) Get(ctx context.Context, guard *auth.Guard, id string) (Banner, error) {
	if _, err := guard.RequireCapability(rbac.CapBannersRead); err != nil {
		return Banner{}, err
	}
	return s.repo.Get(ctx, id)
}

// Create stores a new banner.
func (s *Service) Create(ctx context.Context, guard *auth.Guard, in Input) (Banner, error) {
	actor, err := guard.RequireCapability(rbac.CapBannersWrite)
	if err != nil {
		return Banner{}, err
	}
	now := s.now().UTC()
	b, err := in.build(Banner{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now})
	if err != nil {
		return Banner{}, err
	}
	created, err := s.repo.Create(ctx, b)
	if err != nil {
		return Banner{}, err
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

// Update replaces every writable field. This is the only way a banner changes status.
func (s *Service) Update(ctx context.Context, guard *auth.Guard, id string, in Input) (Banner, error) {
	actor, err := guard.RequireCapability(rbac.CapBannersWrite)
	if err != nil {
		return Banner{}, err
	}
	before, after, err := s.repo.Update(ctx, id, func(current Banner) (Banner, error) {
		next, err := in.build(current)
		if err != nil {
			return Banner{}, err
		}
		next.UpdatedAt = s.now().UTC()
		return next, nil
	})
	if err != nil {
		return Banner{}, err
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

// Delete removes a banner.
func (s *Service) Delete(ctx context.Context, guard *auth.Guard, id string) error {
	actor, err := guard.RequireCapability(rbac.CapBannersWrite)
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
