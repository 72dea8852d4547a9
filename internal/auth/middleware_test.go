package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couponhub/dashboard/internal/rbac"
	"github.com/couponhub/dashboard/internal/shared"
)

func newAuthenticator(t *testing.T) (Authenticator, *Tokens) {
	t.Helper()
	store := newMemActorStore(
		Credentials{Actor: Actor{ID: "mkt", Role: rbac.RoleMarketing, Active: true}},
		Credentials{Actor: Actor{ID: "root", Role: rbac.RoleSuperAdmin, Active: true}},
	)
	tokens := NewTokens(testSecret, "dashboard", time.Hour)
	return Authenticator{Resolver: NewResolver(tokens, store, nil), Registry: rbac.DefaultRegistry()}, tokens
}

func TestRequireCapabilityMiddleware(t *testing.T) {
	authn, tokens := newAuthenticator(t)
	var reached bool
	h := authn.Middleware(RequireCapability(rbac.CapAdminsWrite)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusNoContent)
	})))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + issue(t, tokens, "root"), http.StatusUnauthorized},
		{"forbidden", "Bearer " + issue(t, tokens, "mkt"), http.StatusForbidden},
		{"allowed", "bearer " + issue(t, tokens, "root"), http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reached = false
			req := httptest.NewRequest(http.MethodPost, "/admins", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tc.status, rr.Code)
			assert.Equal(t, tc.status == http.StatusNoContent, reached)
		})
	}
}

func TestAuthenticatorStoresProvenance(t *testing.T) {
	authn, _ := newAuthenticator(t)
	var got shared.Provenance
	h := authn.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = shared.ProvenanceFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:5123"
	req.Header.Set("User-Agent", "ops-console/1.0")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, "203.0.113.9", got.IP)
	assert.Equal(t, "ops-console/1.0", got.UserAgent)
}
