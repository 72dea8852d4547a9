package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/couponhub/dashboard/internal/admins"
	audithttp "github.com/couponhub/dashboard/internal/audit/http"
	"github.com/couponhub/dashboard/internal/auth"
	"github.com/couponhub/dashboard/internal/banners"
	"github.com/couponhub/dashboard/internal/conversions"
	"github.com/couponhub/dashboard/internal/coupons"
	"github.com/couponhub/dashboard/internal/merchants"
	"github.com/couponhub/dashboard/internal/observability"
	"github.com/couponhub/dashboard/internal/rbac"
	"github.com/couponhub/dashboard/jobs"
)

// RouterParams groups dependencies for building the HTTP router. Nil
// handlers are not mounted.
type RouterParams struct {
	Logger        *slog.Logger
	Config        *Config
	Authenticator *auth.Authenticator
	Metrics       *observability.Metrics

	AuthHandler        *auth.Handler
	PermissionsHandler *rbac.PermissionsHandler
	MerchantsHandler   *merchants.Handler
	CouponsHandler     *coupons.Handler
	BannersHandler     *banners.Handler
	ConversionsHandler *conversions.Handler
	AdminsHandler      *admins.Handler
	AuditHandler       *audithttp.Handler
	JobHandler         *jobs.Handler
}

// NewRouter constructs the chi.Router with dashboard defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:        params.Logger,
		Config:        params.Config,
		Authenticator: params.Authenticator,
		Metrics:       params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	if params.AuthHandler != nil {
		r.Route("/auth", params.AuthHandler.MountRoutes)
	}
	if params.PermissionsHandler != nil {
		r.Route("/permissions", params.PermissionsHandler.MountRoutes)
	}
	if params.MerchantsHandler != nil {
		r.Route("/merchants", params.MerchantsHandler.MountRoutes)
	}
	if params.CouponsHandler != nil {
		r.Route("/coupons", params.CouponsHandler.MountRoutes)
	}
	if params.BannersHandler != nil {
		r.Route("/banners", params.BannersHandler.MountRoutes)
	}
	if params.ConversionsHandler != nil {
		r.Route("/conversions", params.ConversionsHandler.MountRoutes)
	}
	if params.AdminsHandler != nil {
		r.Route("/admins", params.AdminsHandler.MountRoutes)
	}
	if params.AuditHandler != nil {
		r.Route("/audit", params.AuditHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", func(r chi.Router) {
			r.Use(auth.RequireCapability(rbac.CapAuditRead))
			params.JobHandler.MountRoutes(r)
		})
	}
	return r
}
