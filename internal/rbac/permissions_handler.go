package rbac

import (
	"maps"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/couponhub/dashboard/internal/platform/httpx"
)

// PermissionsHandler exposes the role table read-only.
type PermissionsHandler struct {
	registry *Registry
	guard    func(http.Handler) http.Handler
}

// NewPermissionsHandler builds PermissionsHandler. guard is the route middleware
// enforcing the listing capability.
func NewPermissionsHandler(registry *Registry, guard func(http.Handler) http.Handler) *PermissionsHandler {
	return &PermissionsHandler{registry: registry, guard: guard}
}

// MountRoutes registers permission routes.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		if h.guard != nil {
			r.Use(h.guard)
		}
		r.Get("/", h.listPermissions)
	})
}

type roleView struct {
	Role         Role         `json:"role"`
	Capabilities []Capability `json:"capabilities"`
	Wildcard     bool         `json:"wildcard"`
}

func (h *PermissionsHandler) listPermissions(w http.ResponseWriter, r *http.Request) {
	table := h.registry.Table()
	out := make([]roleView, 0, len(table))
	for _, role := range slices.Sorted(maps.Keys(table)) {
		out = append(out, roleView{
			Role:         role,
			Capabilities: table[role],
			Wildcard:     role == h.registry.WildcardRole(),
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"roles": out})
}
