package conversions

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/couponhub/dashboard/internal/auth"
	"github.com/couponhub/dashboard/internal/lifecycle"
	"github.com/couponhub/dashboard/internal/platform/httpx"
	"github.com/couponhub/dashboard/internal/rbac"
	"github.com/couponhub/dashboard/internal/shared"
)

// Handler exposes conversion endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the conversion handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches conversion routes. Capabilities are checked before the
// body or query is parsed.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireCapability(rbac.CapConversionsRead))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireCapability(rbac.CapConversionsWrite))
		r.Put("/{id}/status", h.setStatus)
	})
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	f := Filter{MerchantID: r.URL.Query().Get("merchant_id")}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := lifecycle.ParseConversionStatus(raw)
		if err != nil {
			httpx.Fail(w, r, h.logger, shared.Invalid("%v", err))
			return
		}
		f.Status = status
	}
	page, err := h.service.List(r.Context(), auth.GuardFromContext(r.Context()), f, httpx.PageFromQuery(r))
	if err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, page)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), auth.GuardFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := httpx.DecodeJSON(r, h.validate, &req); err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	c, err := h.service.SetStatus(r.Context(), auth.GuardFromContext(r.Context()), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}
