// Package coupons manages coupon listings and their lifecycle.
package coupons

import (
	"time"

	"github.com/couponhub/dashboard/internal/lifecycle"
)

// EntityType names coupons in the audit trail.
const EntityType = "Coupon"

// Coupon is a discount code offered for a merchant.
type Coupon struct {
	ID           string                 `json:"id"`
	MerchantID   string                 `json:"merchant_id"`
	Code         string                 `json:"code"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	AffiliateURL string                 `json:"affiliate_url"`
	Status       lifecycle.CouponStatus `json:"status"`
	StartsAt     *time.Time             `json:"starts_at"`
	ExpiresAt    *time.Time             `json:"expires_at"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// Input carries the writable fields of a coupon. An empty Status keeps the current status, SCHEDULED for new coupons.
type Input struct {
	MerchantID   string
	Code         string
	Title        string
	Description  string
	AffiliateURL string
	Status       string
	StartsAt     *time.Time
	ExpiresAt    *time.Time
}

// Filter narrows coupon listings.
type Filter struct {
	MerchantID string
	Status     lifecycle.CouponStatus
}
