// Package banners manages promotional banners shown on the storefront.
package banners

import (
	"time"

	"github.com/couponhub/dashboard/internal/lifecycle"
	"github.com/couponhub/dashboard/internal/shared"
)

// EntityType names banners in the audit trail.
const EntityType = "Banner"

// Banner is a placement of promotional artwork.
type Banner struct {
	ID        string                 `json:"id"`
	Title     string                 `json:"title"`
	ImageURL  string                 `json:"image_url"`
	LinkURL   string                 `json:"link_url"`
	Placement string                 `json:"placement"`
	Position  int                    `json:"position"`
	Status    lifecycle.BannerStatus `json:"status"`
	StartsAt  *time.Time             `json:"starts_at"`
	EndsAt    *time.Time             `json:"ends_at"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// Input carries the writable fields of a banner.
type Input struct {
	Title     string
	ImageURL  string
	LinkURL   string
	Placement string
	Position  int
	Status    string
	StartsAt  *time.Time
	EndsAt    *time.Time
}

func (in Input) build(b Banner) (Banner, error) {
	status, err := lifecycle.ParseBannerStatus(in.Status)
	if err != nil {
		return Banner{}, shared.Invalid("%v", err)
	}
	if in.StartsAt != nil && in.EndsAt != nil && !in.EndsAt.After(*in.StartsAt) {
		return Banner{}, shared.Invalid("banner must end after it starts")
	}
	if in.Position < 0 {
		return Banner{}, shared.Invalid("banner position must not be negative")
	}
	b.Title = in.Title
	b.ImageURL = in.ImageURL
	b.LinkURL = in.LinkURL
	b.Placement = in.Placement
	b.Position = in.Position
	b.Status = status
	b.StartsAt = in.StartsAt
	b.EndsAt = in.EndsAt
	return b, nil
}
