package admins

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/couponhub/dashboard/internal/audit"
	"github.com/couponhub/dashboard/internal/auth"
	"github.com/couponhub/dashboard/internal/rbac"
	"github.com/couponhub/dashboard/internal/shared"
)

const minPasswordLength = 8

// Service implements admin account operations.
type Service struct {
	repo       Repository
	recorder   *audit.Recorder
	now        func() time.Time
	bcryptCost int
}

// NewService constructs the admin service.
func NewService(repo Repository, recorder *audit.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder, now: time.Now, bcryptCost: bcrypt.DefaultCost}
}

// List returns one page of accounts.
func (s *Service) List(ctx context.Context, guard *auth.Guard, page shared.Page) (shared.Paged[Admin], error) {
	if _, err := guard.RequireCapability(rbac.CapAdminsRead); err != nil {
		return shared.Paged[Admin]{}, err
	}
	page = page.Normalize()
	rows, err := s.repo.List(ctx, page.Size+1, page.Offset())
	if err != nil {
		return shared.Paged[Admin]{}, err
	}
	return shared.Paginate(rows, page), nil
}

// Get returns one account.
func (s *Service) Get(ctx context.Context, guard *auth.Guard, id string) (Admin, error) {
	if _, err := guard.RequireCapability(rbac.CapAdminsRead); err != nil {
		return Admin{}, err
	}
	return s.repo.Get(ctx, id)
}

// Create opens an account with a bcrypt hashed password.
func (s *Service) Create(ctx context.Context, guard *auth.Guard, in CreateInput) (Admin, error) {
	actor, err := guard.RequireCapability(rbac.CapAdminsWrite)
	if err != nil {
		return Admin{}, err
	}
	email := strings.TrimSpace(in.Email)
	if !strings.Contains(email, "@") {
		return Admin{}, shared.Invalid("admin email %q is not valid", in.Email)
	}
	if strings.TrimSpace(in.Name) == "" {
		return Admin{}, shared.Invalid("admin name is required")
	}
	role, err := rbac.ParseRole(in.Role)
	if err != nil {
		return Admin{}, shared.Invalid("%v", err)
	}
	if len(in.Password) < minPasswordLength {
		return Admin{}, shared.Invalid("password must have at least %d characters", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return Admin{}, fmt.Errorf("admins: hash password: %w", err)
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, Admin{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		Role:         role,
		Active:       true,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return Admin{}, err
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

// Update changes name, role and activation of an account.
func (s *Service) Update(ctx context.Context, guard *auth.Guard, id string, in UpdateInput) (Admin, error) {
	actor, err := guard.RequireCapability(rbac.CapAdminsWrite)
	if err != nil {
		return Admin{}, err
	}
	role, err := rbac.ParseRole(in.Role)
	if err != nil {
		return Admin{}, shared.Invalid("%v", err)
	}
	if strings.TrimSpace(in.Name) == "" {
		return Admin{}, shared.Invalid("admin name is required")
	}
	if id == actor.ID && (!in.Active || role != actor.Role) {
		return Admin{}, shared.Invalid("admins cannot deactivate or change the role of their own account")
	}
	before, after, err := s.repo.Update(ctx, id, func(current Admin) (Admin, error) {
		current.Name = strings.TrimSpace(in.Name)
		current.Role = role
		current.Active = in.Active
		current.UpdatedAt = s.now().UTC()
		return current, nil
	})
	if err != nil {
		return Admin{}, err
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

// Delete removes an account. Admins cannot delete themselves.
func (s *Service) Delete(ctx context.Context, guard *auth.Guard, id string) error {
	actor, err := guard.RequireCapability(rbac.CapAdminsWrite)
	if err != nil {
		return err
	}
	if id == actor.ID {
		return shared.Invalid("admins cannot delete their own account")
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
