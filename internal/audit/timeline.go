package audit

import (
	"time"

	"github.com/couponhub/dashboard/internal/shared"
)

// Filters narrows the audit timeline. Zero values do not filter.
type Filters struct {
	ActorID    string
	EntityType string
	EntityID   string
	Action     Action
	From       time.Time
	To         time.Time
	Page       shared.Page
}

// Result wraps a timeline page with navigation metadata.
type Result struct {
	Records []Record          `json:"records"`
	Paging  shared.PagingInfo `json:"paging"`
}
