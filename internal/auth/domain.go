package auth

import (
	"time"

	"github.com/couponhub/dashboard/internal/rbac"
)

// Actor represents an authenticated staff member.
type Actor struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        rbac.Role  `json:"role"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// Credentials pairs an actor with its password hash. Only the login path reads it.
type Credentials struct {
	Actor
	PasswordHash string
}

// Session is handed back to the client after a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Actor     Actor     `json:"actor"`
}
