package auth

import (
	"net"
	"net/http"
	"strings"

	"github.com/couponhub/dashboard/internal/platform/httpx"
	"github.com/couponhub/dashboard/internal/rbac"
	"github.com/couponhub/dashboard/internal/shared"
)

// Authenticator attaches a request guard and provenance to every request.
type Authenticator struct {
	Resolver *Resolver
	Registry *rbac.Registry
}

// Middleware resolves the bearer token, if any. It never rejects a request;
// handlers decide through the guard.
func (a Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var actor *Actor
		if token, ok := bearerToken(r); ok {
			actor = a.Resolver.Resolve(ctx, token)
		}
		ctx = ContextWithGuard(ctx, NewGuard(a.Registry, actor))
		ctx = shared.ContextWithProvenance(ctx, shared.Provenance{
			IP:        clientIP(r),
			UserAgent: r.UserAgent(),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireCapability rejects the request before the handler runs when the
// guard in context does not grant capability.
func RequireCapability(capability rbac.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := GuardFromContext(r.Context()).RequireCapability(capability); err != nil {
				httpx.RespondError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthenticated rejects anonymous requests.
func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := GuardFromContext(r.Context()).RequireAuthenticated(); err != nil {
			httpx.RespondError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// clientIP expects chi's RealIP middleware to have rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
