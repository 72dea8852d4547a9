// Package admins manages the staff accounts that operate the dashboard.
package admins

import (
	"time"

	"github.com/couponhub/dashboard/internal/rbac"
)

// EntityType names admins in the audit trail.
const EntityType = "Admin"

// Admin is a staff account. PasswordHash is never rendered by the API and
// is dropped from audit snapshots.
type Admin struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         rbac.Role  `json:"role"`
	Active       bool       `json:"active"`
	PasswordHash string     `json:"password_hash"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// View is the API representation of an admin.
type View struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        rbac.Role  `json:"role"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// View strips the credentials.
func (a Admin) View() View {
	return View{
		ID:          a.ID,
		Email:       a.Email,
		Name:        a.Name,
		Role:        a.Role,
		Active:      a.Active,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// CreateInput is the data needed to open an account.
type CreateInput struct {
	Email    string
	Name     string
	Role     string
	Password string
}

// UpdateInput carries the mutable account fields.
type UpdateInput struct {
	Name   string
	Role   string
	Active bool
}
