package coupons

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/couponhub/dashboard/internal/auth"
	"github.com/couponhub/dashboard/internal/lifecycle"
	"github.com/couponhub/dashboard/internal/platform/httpx"
	"github.com/couponhub/dashboard/internal/rbac"
	"github.com/couponhub/dashboard/internal/shared"
)

// Handler exposes coupon endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the coupon handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches coupon routes. Capabilities are checked before the
// body or query is parsed.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireCapability(rbac.CapCouponsRead))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireCapability(rbac.CapCouponsWrite))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.Post("/{id}/expire", h.transition(h.service.Expire))
		r.Post("/{id}/suppress", h.transition(h.service.Suppress))
	})
}

type couponRequest struct {
	MerchantID   string     `json:"merchant_id" validate:"required"`
	Code         string     `json:"code" validate:"required,max=64"`
	Title        string     `json:"title" validate:"required,max=200"`
	Description  string     `json:"description" validate:"max=4000"`
	AffiliateURL string     `json:"affiliate_url" validate:"omitempty,url"`
	Status       string     `json:"status" validate:"omitempty,oneof=SCHEDULED ACTIVE EXPIRED SUPPRESSED"`
	StartsAt     *time.Time `json:"starts_at"`
	ExpiresAt    *time.Time `json:"expires_at"`
}

func (req couponRequest) input() Input {
	return Input{
		MerchantID:   req.MerchantID,
		Code:         req.Code,
		Title:        req.Title,
		Description:  req.Description,
		AffiliateURL: req.AffiliateURL,
		Status:       req.Status,
		StartsAt:     req.StartsAt,
		ExpiresAt:    req.ExpiresAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	f := Filter{MerchantID: r.URL.Query().Get("merchant_id")}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := lifecycle.ParseCouponStatus(raw)
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

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := httpx.DecodeJSON(r, h.validate, &req); err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	c, err := h.service.Create(r.Context(), auth.GuardFromContext(r.Context()), req.input())
	if err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := httpx.DecodeJSON(r, h.validate, &req); err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	c, err := h.service.Update(r.Context(), auth.GuardFromContext(r.Context()), chi.URLParam(r, "id"), req.input())
	if err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

type transitionFunc func(ctx context.Context, guard *auth.Guard, id string) (Coupon, error)

func (h *Handler) transition(fn transitionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := fn(r.Context(), auth.GuardFromContext(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			httpx.Fail(w, r, h.logger, err)
			return
		}
		httpx.JSON(w, http.StatusOK, c)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), auth.GuardFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
