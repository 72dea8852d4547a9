package lifecycle

// BannerStatus represents the lifecycle of a banner. Banners change status
// only through full-record updates.
type BannerStatus string

const (
	BannerActive    BannerStatus = "ACTIVE"
	BannerInactive  BannerStatus = "INACTIVE"
	BannerScheduled BannerStatus = "SCHEDULED"
)

var banners = newTable("banner", BannerActive, BannerInactive, BannerScheduled)

// ParseBannerStatus validates a status supplied to a full-record update.
func ParseBannerStatus(value string) (BannerStatus, error) {
	return banners.parse(value)
}

// BannerStatuses lists the banner enumeration.
func BannerStatuses() []BannerStatus {
	return append([]BannerStatus(nil), banners.states...)
}
