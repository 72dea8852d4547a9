// Package conversions exposes affiliate conversions for operator review.
package conversions

import (
	"time"

	"github.com/couponhub/dashboard/internal/lifecycle"
)

// EntityType names conversions in the audit trail.
const EntityType = "Conversion"

// Conversion is a tracked sale attributed to a merchant and optionally a coupon.
type Conversion struct {
	ID              string                     `json:"id"`
	MerchantID      string                     `json:"merchant_id"`
	CouponID        *string                    `json:"coupon_id"`
	OrderRef        string                     `json:"order_ref"`
	SaleAmountCents int64                      `json:"sale_amount_cents"`
	CommissionCents int64                      `json:"commission_cents"`
	Currency        string                     `json:"currency"`
	Status          lifecycle.ConversionStatus `json:"status"`
	OccurredAt      time.Time                  `json:"occurred_at"`
	ConfirmedAt     *time.Time                 `json:"confirmed_at"`
	PaidAt          *time.Time                 `json:"paid_at"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

func (c Conversion) state() lifecycle.ConversionState {
	return lifecycle.ConversionState{Status: c.Status, ConfirmedAt: c.ConfirmedAt, PaidAt: c.PaidAt}
}

func (c Conversion) withState(st lifecycle.ConversionState) Conversion {
	c.Status = st.Status
	c.ConfirmedAt = st.ConfirmedAt
	c.PaidAt = st.PaidAt
	return c
}

// Filter narrows conversion listings.
type Filter struct {
	MerchantID string
	Status     lifecycle.ConversionStatus
}
