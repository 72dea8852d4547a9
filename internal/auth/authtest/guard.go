// Package authtest builds request guards for service tests.
package authtest

import (
	"github.com/couponhub/dashboard/internal/auth"
	"github.com/couponhub/dashboard/internal/rbac"
)

// Guard returns a guard for an active actor holding role.
func Guard(id string, role rbac.Role) *auth.Guard {
	return auth.NewGuard(rbac.DefaultRegistry(), &auth.Actor{
		ID:     id,
		Email:  id + "@couponhub.test",
		Name:   id,
		Role:   role,
		Active: true,
	})
}

// Anonymous returns a guard with no actor.
func Anonymous() *auth.Guard {
	return auth.NewGuard(rbac.DefaultRegistry(), nil)
}
