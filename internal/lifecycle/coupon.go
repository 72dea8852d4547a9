package lifecycle

// CouponStatus represents the lifecycle of a coupon.
type CouponStatus string

const (
	CouponScheduled  CouponStatus = "SCHEDULED"
	CouponActive     CouponStatus = "ACTIVE"
	CouponExpired    CouponStatus = "EXPIRED"
	CouponSuppressed CouponStatus = "SUPPRESSED"
)

// CouponEvent is one of ExpireCoupon or SuppressCoupon.
type CouponEvent interface {
	couponEvent() string
}

// ExpireCoupon moves any coupon to EXPIRED.
type ExpireCoupon struct{}

// SuppressCoupon moves any coupon to SUPPRESSED.
type SuppressCoupon struct{}

func (ExpireCoupon) couponEvent() string   { return "expire" }
func (SuppressCoupon) couponEvent() string { return "suppress" }

var coupons = newTable("coupon", CouponScheduled, CouponActive, CouponExpired, CouponSuppressed).
	allowFromAll(ExpireCoupon{}.couponEvent(), CouponExpired).
	allowFromAll(SuppressCoupon{}.couponEvent(), CouponSuppressed)

// ApplyCoupon returns the status after ev. Re-applying to a coupon already in
// the target status returns that status unchanged.
func ApplyCoupon(current CouponStatus, ev CouponEvent) (CouponStatus, error) {
	return coupons.next(current, ev.couponEvent())
}

// ParseCouponStatus validates a status supplied to a full-record update.
func ParseCouponStatus(value string) (CouponStatus, error) {
	return coupons.parse(value)
}

// CouponStatuses lists the coupon enumeration.
func CouponStatuses() []CouponStatus {
	return append([]CouponStatus(nil), coupons.states...)
}
