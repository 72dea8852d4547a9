package banners

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/couponhub/dashboard/internal/auth"
	"github.com/couponhub/dashboard/internal/platform/httpx"
	"github.com/couponhub/dashboard/internal/rbac"
)

// Handler exposes banner endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the banner handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches banner routes. Capabilities are checked before the
// body or query is parsed.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireCapability(rbac.CapBannersRead))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireCapability(rbac.CapBannersWrite))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

type bannerRequest struct {
	Title     string     `json:"title" validate:"required,max=200"`
	ImageURL  string     `json:"image_url" validate:"required,url"`
	LinkURL   string     `json:"link_url" validate:"omitempty,url"`
	Placement string     `json:"placement" validate:"required,max=64"`
	Position  int        `json:"position" validate:"gte=0"`
	Status    string     `json:"status" validate:"required"`
	StartsAt  *time.Time `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at"`
}

func (req bannerRequest) input() Input {
	return Input{
		Title:     req.Title,
		ImageURL:  req.ImageURL,
		LinkURL:   req.LinkURL,
		Placement: req.Placement,
		Position:  req.Position,
		Status:    req.Status,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(), auth.GuardFromContext(r.Context()), r.URL.Query().Get("placement"), httpx.PageFromQuery(r))
	if err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, page)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(r.Context(), auth.GuardFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req bannerRequest
	if err := httpx.DecodeJSON(r, h.validate, &req); err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	b, err := h.service.Create(r.Context(), auth.GuardFromContext(r.Context()), req.input())
	if err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, b)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req bannerRequest
	if err := httpx.DecodeJSON(r, h.validate, &req); err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	b, err := h.service.Update(r.Context(), auth.GuardFromContext(r.Context()), chi.URLParam(r, "id"), req.input())
	if err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), auth.GuardFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
