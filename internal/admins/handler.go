package admins

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/couponhub/dashboard/internal/auth"
	"github.com/couponhub/dashboard/internal/platform/httpx"
	"github.com/couponhub/dashboard/internal/rbac"
	"github.com/couponhub/dashboard/internal/shared"
)

// Handler exposes admin account endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the admin handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches admin routes. Capabilities are checked before the
// body or query is parsed.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireCapability(rbac.CapAdminsRead))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireCapability(rbac.CapAdminsWrite))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

type createRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=120"`
	Role     string `json:"role" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type updateRequest struct {
	Name   string `json:"name" validate:"required,max=120"`
	Role   string `json:"role" validate:"required"`
	Active bool   `json:"active"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(), auth.GuardFromContext(r.Context()), httpx.PageFromQuery(r))
	if err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	views := make([]View, 0, len(page.Items))
	for _, a := range page.Items {
		views = append(views, a.View())
	}
	httpx.JSON(w, http.StatusOK, shared.Paged[View]{Items: views, Paging: page.Paging})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.Get(r.Context(), auth.GuardFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a.View())
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, h.validate, &req); err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	a, err := h.service.Create(r.Context(), auth.GuardFromContext(r.Context()), CreateInput{
		Email: req.Email, Name: req.Name, Role: req.Role, Password: req.Password,
	})
	if err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, a.View())
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := httpx.DecodeJSON(r, h.validate, &req); err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	a, err := h.service.Update(r.Context(), auth.GuardFromContext(r.Context()), chi.URLParam(r, "id"), UpdateInput{
		Name: req.Name, Role: req.Role, Active: req.Active,
	})
	if err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a.View())
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), auth.GuardFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
