package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couponhub/dashboard/internal/rbac"
)

func newAuthRouter(t *testing.T) (http.Handler, *Tokens) {
	t.Helper()
	svc, store, tokens := newLoginFixture(t, nil)
	authn := Authenticator{Resolver: NewResolver(tokens, store, nil), Registry: rbac.DefaultRegistry()}
	r := chi.NewRouter()
	r.Use(authn.Middleware)
	r.Route("/auth", NewHandler(nil, svc).MountRoutes)
	return r, tokens
}

func TestLoginEndpoint(t *testing.T) {
	router, _ := newAuthRouter(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"ops@example.com","password":"correct-horse"}`))
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var session Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &session))
	assert.NotEmpty(t, session.Token)

	me := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	me.Header.Set("Authorization", "Bearer "+session.Token)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, me)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"id":"A1"`)
}

func TestLoginEndpointRejects(t *testing.T) {
	router, _ := newAuthRouter(t)
	cases := map[string]struct {
		body   string
		status int
	}{
		"bad password": {`{"email":"ops@example.com","password":"wrong-password"}`, http.StatusUnauthorized},
		"invalid body": {`{"email":"not-an-email","password":"x"}`, http.StatusBadRequest},
		"malformed":    {`{`, http.StatusBadRequest},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tc.body)))
			assert.Equal(t, tc.status, rr.Code)
		})
	}
}

func TestMeRequiresToken(t *testing.T) {
	router, _ := newAuthRouter(t)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
