package audit

import (
	"context"
	"fmt"

	"github.com/couponhub/dashboard/internal/auth"
	"github.com/couponhub/dashboard/internal/rbac"
	"github.com/couponhub/dashboard/internal/shared"
)

// Repository reads the audit trail.
type Repository interface {
	List(ctx context.Context, f Filters, limit, offset int) ([]Record, error)
	ListAll(ctx context.Context, f Filters) ([]Record, error)
}

// Service serves the audit timeline to operators holding audit:read.
type Service struct {
	repo Repository
}

// NewService constructs the audit timeline service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Timeline returns one page of records. One extra row is fetched to detect a next page.
func (s *Service) Timeline(ctx context.Context, guard *auth.Guard, f Filters) (Result, error) {
	if _, err := guard.RequireCapability(rbac.CapAuditRead); err != nil {
		return Result{}, err
	}
	if s.repo == nil {
		return Result{}, fmt.Errorf("audit: repository not configured")
	}
	page := f.Page.Normalize()
	rows, err := s.repo.List(ctx, f, page.Size+1, page.Offset())
	if err != nil {
		return Result{}, err
	}
	hasNext := len(rows) > page.Size
	if hasNext {
		rows = rows[:page.Size]
	}
	if rows == nil {
		rows = []Record{}
	}
	return Result{Records: rows, Paging: shared.NewPagingInfo(page, hasNext)}, nil
}

// Export returns every record matching f.
func (s *Service) Export(ctx context.Context, guard *auth.Guard, f Filters) ([]Record, error) {
	if _, err := guard.RequireCapability(rbac.CapAuditRead); err != nil {
		return nil, err
	}
	if s.repo == nil {
		return nil, fmt.Errorf("audit: repository not configured")
	}
	return s.repo.ListAll(ctx, f)
}
