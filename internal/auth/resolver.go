package auth

import (
	"context"
	"log/slog"
	"strings"
)

// Resolver turns a bearer credential into an active actor.
type Resolver struct {
	verifier TokenVerifier
	actors   ActorStore
	logger   *slog.Logger
}

// NewResolver constructs a Resolver.
func NewResolver(verifier TokenVerifier, actors ActorStore, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{verifier: verifier, actors: actors, logger: logger}
}

// Resolve returns the actor named by token, or nil. Malformed, expired, unknown
// and inactive all look the same to the caller.
func (r *Resolver) Resolve(ctx context.Context, token string) *Actor {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	claims, err := r.verifier.Verify(token)
	if err != nil {
		r.logger.Debug("resolve actor: token rejected", slog.Any("error", err))
		return nil
	}
	actor, err := r.actors.FindByID(ctx, claims.Subject)
	if err != nil {
		r.logger.Debug("resolve actor: lookup failed", slog.String("actor_id", claims.Subject), slog.Any("error", err))
		return nil
	}
	if !actor.Active {
		r.logger.Debug("resolve actor: inactive", slog.String("actor_id", actor.ID))
		return nil
	}
	return &actor
}
