package auth

import (
	"context"

	"github.com/couponhub/dashboard/internal/rbac"
	"github.com/couponhub/dashboard/internal/shared"
)

// Guard answers authorization questions for a single request.
type Guard struct {
	registry *rbac.Registry
	actor    *Actor
}

// NewGuard builds a guard around the resolved actor, which may be nil.
func NewGuard(registry *rbac.Registry, actor *Actor) *Guard {
	var held *Actor
	if actor != nil {
		copied := *actor
		held = &copied
	}
	return &Guard{registry: registry, actor: held}
}

// RequireAuthenticated returns the actor or ErrUnauthenticated.
func (g *Guard) RequireAuthenticated() (Actor, error) {
	if g == nil || g.actor == nil {
		return Actor{}, shared.ErrUnauthenticated
	}
	return *g.actor, nil
}

// RequireCapability returns the actor when its role grants capability.
func (g *Guard) RequireCapability(capability rbac.Capability) (Actor, error) {
	actor, err := g.RequireAuthenticated()
	if err != nil {
		return Actor{}, err
	}
	if !g.registry.RoleHasCapability(actor.Role, capability) {
		return Actor{}, shared.Forbidden(string(capability))
	}
	return actor, nil
}

type guardContextKey struct{}

// ContextWithGuard stores the request guard in context.
func ContextWithGuard(ctx context.Context, g *Guard) context.Context {
	return context.WithValue(ctx, guardContextKey{}, g)
}

// GuardFromContext extracts the guard. A missing guard denies everything.
func GuardFromContext(ctx context.Context) *Guard {
	if g, ok := ctx.Value(guardContextKey{}).(*Guard); ok && g != nil {
		return g
	}
	return &Guard{}
}
