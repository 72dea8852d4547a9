package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couponhub/dashboard/internal/rbac"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens(testSecret, "dashboard", time.Hour)
	token, expiresAt, err := tokens.Issue(Actor{ID: "A1", Role: rbac.RoleMarketing})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "A1", claims.Subject)
	assert.Equal(t, "MARKETING", claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestTokensRejectExpired(t *testing.T) {
	tokens := NewTokens(testSecret, "dashboard", time.Hour)
	tokens.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }
	token, _, err := tokens.Issue(Actor{ID: "A1", Role: rbac.RoleAdmin})
	require.NoError(t, err)

	tokens.now = time.Now
	_, err = tokens.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensRejectForeignSignatures(t *testing.T) {
	other := NewTokens("ffffffffffffffffffffffffffffffff", "dashboard", time.Hour)
	token, _, err := other.Issue(Actor{ID: "A1", Role: rbac.RoleAdmin})
	require.NoError(t, err)

	_, err = NewTokens(testSecret, "dashboard", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensRejectWrongIssuerAndAlgorithm(t *testing.T) {
	tokens := NewTokens(testSecret, "dashboard", time.Hour)

	foreign := NewTokens(testSecret, "someone-else", time.Hour)
	token, _, err := foreign.Issue(Actor{ID: "A1", Role: rbac.RoleAdmin})
	require.NoError(t, err)
	_, err = tokens.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "A1",
			Issuer:    "dashboard",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensRequireSubject(t *testing.T) {
	tokens := NewTokens(testSecret, "", time.Hour)
	token, _, err := tokens.Issue(Actor{Role: rbac.RoleAdmin})
	require.NoError(t, err)
	_, err = tokens.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
