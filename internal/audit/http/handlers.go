package audithttp

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couponhub/dashboard/internal/audit"
	"github.com/couponhub/dashboard/internal/auth"
	"github.com/couponhub/dashboard/internal/platform/httpx"
	"github.com/couponhub/dashboard/internal/shared"
)

const dateLayout = "2006-01-02"

// TimelineService is the audit read contract the handler depends on.
type TimelineService interface {
	Timeline(ctx context.Context, guard *auth.Guard, f audit.Filters) (audit.Result, error)
	Export(ctx context.Context, guard *auth.Guard, f audit.Filters) ([]audit.Record, error)
}

// Handler serves the audit timeline and its CSV export.
type Handler struct {
	logger  *slog.Logger
	service TimelineService
}

// NewHandler builds the audit handler.
func NewHandler(logger *slog.Logger, service TimelineService) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

func (h *Handler) handleTimeline(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	result, err := h.service.Timeline(r.Context(), auth.GuardFromContext(r.Context()), filters)
	if err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	records, err := h.service.Export(r.Context(), auth.GuardFromContext(r.Context()), filters)
	if err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	body, err := audit.EncodeCSV(records)
	if err != nil {
		httpx.Fail(w, r, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="audit-trail.csv"`)
	if _, err := w.Write(body); err != nil {
		h.logger.Warn("write csv", slog.Any("error", err))
	}
}

func parseFilters(r *http.Request) (audit.Filters, error) {
	q := r.URL.Query()
	f := audit.Filters{
		ActorID:    strings.TrimSpace(q.Get("actor")),
		EntityType: strings.TrimSpace(q.Get("entity_type")),
		EntityID:   strings.TrimSpace(q.Get("entity_id")),
		Page:       httpx.PageFromQuery(r),
	}
	if raw := strings.TrimSpace(q.Get("action")); raw != "" {
		action := audit.Action(strings.ToUpper(raw))
		switch action {
		case audit.ActionCreate, audit.ActionUpdate, audit.ActionDelete:
			f.Action = action
		default:
			return audit.Filters{}, shared.Invalid("action must be CREATE, UPDATE or DELETE")
		}
	}
	var err error
	if f.From, err = parseInstant(q.Get("from"), false); err != nil {
		return audit.Filters{}, shared.Invalid("from: %v", err)
	}
	if f.To, err = parseInstant(q.Get("to"), true); err != nil {
		return audit.Filters{}, shared.Invalid("to: %v", err)
	}
	if !f.From.IsZero() && !f.To.IsZero() && !f.From.Before(f.To) {
		return audit.Filters{}, shared.Invalid("from must be before to")
	}
	return f, nil
}

// parseInstant accepts RFC 3339 or a bare date. A bare upper bound covers the
// whole day.
func parseInstant(raw string, upper bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, err
	}
	if upper {
		t = t.AddDate(0, 0, 1)
	}
	return t, nil
}
