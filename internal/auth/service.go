package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/couponhub/dashboard/internal/shared"
)

// TokenIssuer signs tokens for a freshly authenticated actor.
type TokenIssuer interface {
	Issue(actor Actor) (string, time.Time, error)
}

// Limiter bounds login attempts per key.
type Limiter interface {
	Allow(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// Service wraps authentication business rules.
type Service struct {
	actors  ActorStore
	tokens  TokenIssuer
	limiter Limiter
	logger  *slog.Logger
	now     func() time.Time
}

// NewService constructs a new Service. limiter may be nil.
func NewService(actors ActorStore, tokens TokenIssuer, limiter Limiter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{actors: actors, tokens: tokens, limiter: limiter, logger: logger, now: time.Now}
}

// Login validates email/password credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	key := shared.NormalizeEmail(email)
	if s.limiter != nil {
		if err := s.limiter.Allow(ctx, key); err != nil {
			if errors.Is(err, shared.ErrRateLimited) {
				return Session{}, err
			}
			s.logger.Warn("login throttle unavailable", slog.Any("error", err))
		}
	}
	creds, err := s.actors.FindByEmail(ctx, key)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("login lookup", slog.Any("error", err))
		}
		return Session{}, shared.ErrInvalidCredentials
	}
	if !creds.Active {
		return Session{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		return Session{}, shared.ErrInvalidCredentials
	}
	now := s.now().UTC()
	if err := s.actors.TouchLastLogin(ctx, creds.ID, now); err != nil {
		s.logger.Warn("touch last login", slog.String("actor_id", creds.ID), slog.Any("error", err))
	} else {
		creds.LastLoginAt = &now
	}
	token, expiresAt, err := s.tokens.Issue(creds.Actor)
	if err != nil {
		return Session{}, err
	}
	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, key); err != nil {
			s.logger.Warn("login throttle reset", slog.Any("error", err))
		}
	}
	return Session{Token: token, ExpiresAt: expiresAt, Actor: creds.Actor}, nil
}
