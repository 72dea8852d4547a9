package rbac

// Dashboard capabilities.
const (
	CapMerchantsRead  Capability = "merchants:read"
	CapMerchantsWrite Capability = "merchants:write"

	CapCouponsRead  Capability = "coupons:read"
	CapCouponsWrite Capability = "coupons:write"

	CapDealsRead  Capability = "deals:read"
	CapDealsWrite Capability = "deals:write"

	CapBannersRead  Capability = "banners:read"
	CapBannersWrite Capability = "banners:write"

	CapConversionsRead  Capability = "conversions:read"
	CapConversionsWrite Capability = "conversions:write"

	CapClicksRead Capability = "clicks:read"

	CapAdminsRead  Capability = "admins:read"
	CapAdminsWrite Capability = "admins:write"

	CapAuditRead Capability = "audit:read"
)

// DefaultTable is the role table of this deployment. Changing it requires a release.
func DefaultTable() map[Role][]Capability {
	return map[Role][]Capability{
		RoleSuperAdmin: {Wildcard},
		RoleAdmin: {
			CapMerchantsRead, CapMerchantsWrite,
			CapCouponsRead, CapCouponsWrite,
			CapDealsRead, CapDealsWrite,
			CapBannersRead, CapBannersWrite,
			CapConversionsRead, CapConversionsWrite,
			CapClicksRead,
			CapAdminsRead,
			CapAuditRead,
		},
		RoleMarketing: {
			CapMerchantsRead,
			CapCouponsRead, CapCouponsWrite,
			CapDealsRead, CapDealsWrite,
			CapBannersRead, CapBannersWrite,
		},
		RoleAnalyst: {
			CapMerchantsRead,
			CapCouponsRead,
			CapBannersRead,
			CapConversionsRead,
			CapClicksRead,
			CapAuditRead,
		},
	}
}
