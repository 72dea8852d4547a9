package conversions

import (
	"context"
	"time"

	"github.com/couponhub/dashboard/internal/audit"
	"github.com/couponhub/dashboard/internal/auth"
	"github.com/couponhub/dashboard/internal/lifecycle"
	"github.com/couponhub/dashboard/internal/rbac"
	"github.com/couponhub/dashboard/internal/shared"
)

// Service implements conversion review.
type Service struct {
	repo     Repository
	recorder *audit.Recorder
	now      func() time.Time
}

// NewService constructs the conversion service.
func NewService(repo Repository, recorder *audit.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder, now: time.Now}
}

// List returns one page of conversions.
func (s *Service) List(ctx context.Context, guard *auth.Guard, f Filter, page shared.Page) (shared.Paged[Conversion], error) {
	if _, err := guard.RequireCapability(rbac.CapConversionsRead); err != nil {
		return shared.Paged[Conversion]{}, err
	}
	page = page.Normalize()
	rows, err := s.repo.List(ctx, f, page.Size+1, page.Offset())
	if err != nil {
		return shared.Paged[Conversion]{}, err
	}
	return shared.Paginate(rows, page), nil
}

// Get returns one conversion.
func (s *Service) Get(ctx context.Context, guard *auth.Guard, id string) (Conversion, error) {
	if _, err := guard.RequireCapability(rbac.CapConversionsRead); err != nil {
		return Conversion{}, err
	}
	return s.repo.Get(ctx, id)
}

// SetStatus records an operator decision. Any status may follow any other;
// confirmation and payment times are stamped on first entry only.
func (s *Service) SetStatus(ctx context.Context, guard *auth.Guard, id, status string) (Conversion, error) {
	actor, err := guard.RequireCapability(rbac.CapConversionsWrite)
	if err != nil {
		return Conversion{}, err
	}
	to, err := lifecycle.ParseConversionStatus(status)
	if err != nil {
		return Conversion{}, shared.Invalid("%v", err)
	}
	now := s.now().UTC()
	before, after, err := s.repo.SetState(ctx, id, func(st lifecycle.ConversionState) (lifecycle.ConversionState, error) {
		return lifecycle.ApplyConversion(st, lifecycle.SetConversionStatus{To: to}, now)
	}, now)
	if err != nil {
		return Conversion{}, err
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
