package merchants

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/couponhub/dashboard/internal/auth"
	"github.com/couponhub/dashboard/internal/platform/httpx"
	"github.com/couponhub/dashboard/internal/rbac"
)

// Handler exposes merchant endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the merchant handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches merchant routes. Capabilities are checked before the
// body or query is parsed.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireCapability(rbac.CapMerchantsRead))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireCapability(rbac.CapMerchantsWrite))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

type merchantRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Slug        string `json:"slug" validate:"required,max=80"`
	WebsiteURL  string `json:"website_url" validate:"omitempty,url"`
	Description string `json:"description" validate:"max=2000"`
	Active      bool   `json:"active"`
}

func (req merchantRequest) input() Input {
	return Input{Name: req.Name, Slug: req.Slug, WebsiteURL: req.WebsiteURL, Description: req.Description, Active: req.Active}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(), auth.GuardFromContext(r.Context()), httpx.PageFromQuery(r))
	if err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, page)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.Get(r.Context(), auth.GuardFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, m)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req merchantRequest
	if err := httpx.DecodeJSON(r, h.validate, &req); err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	m, err := h.service.Create(r.Context(), auth.GuardFromContext(r.Context()), req.input())
	if err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, m)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req merchantRequest
	if err := httpx.DecodeJSON(r, h.validate, &req); err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	m, err := h.service.Update(r.Context(), auth.GuardFromContext(r.Context()), chi.URLParam(r, "id"), req.input())
	if err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, m)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), auth.GuardFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
