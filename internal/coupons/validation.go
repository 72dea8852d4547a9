package coupons

import (
	"strings"
	"time"

	"github.com/couponhub/dashboard/internal/lifecycle"
	"github.com/couponhub/dashboard/internal/shared"
)

// build validates in and applies it to c. An empty status keeps the current one.
func (in Input) build(c Coupon) (Coupon, error) {
	if strings.TrimSpace(in.MerchantID) == "" {
		return Coupon{}, shared.Invalid("coupon merchant is required")
	}
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" {
		return Coupon{}, shared.Invalid("coupon code is required")
	}
	if strings.TrimSpace(in.Title) == "" {
		return Coupon{}, shared.Invalid("coupon title is required")
	}
	if in.StartsAt != nil && in.ExpiresAt != nil && !in.ExpiresAt.After(*in.StartsAt) {
		return Coupon{}, shared.Invalid("coupon must expire after it starts")
	}
	status := c.Status
	if status == "" {
		status = lifecycle.CouponScheduled
	}
	if in.Status != "" {
		parsed, err := lifecycle.ParseCouponStatus(in.Status)
		if err != nil {
			return Coupon{}, shared.Invalid("%v", err)
		}
		status = parsed
	}
	c.MerchantID = in.MerchantID
	c.Code = code
	c.Title = in.Title
	c.Description = in.Description
	c.AffiliateURL = in.AffiliateURL
	c.Status = status
	c.StartsAt = utc(in.StartsAt)
	c.ExpiresAt = utc(in.ExpiresAt)
	return c, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
