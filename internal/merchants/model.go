// Package merchants manages the merchants whose coupons the platform lists.
package merchants

import "time"

// EntityType names merchants in the audit trail.
const EntityType = "Merchant"

// Merchant is an affiliate partner.
type Merchant struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	WebsiteURL  string    `json:"website_url"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Input carries the writable fields of a merchant.
type Input struct {
	Name        string
	Slug        string
	WebsiteURL  string
	Description string
	Active      bool
}

func (in Input) apply(m Merchant) Merchant {
	m.Name = in.Name
	m.Slug = in.Slug
	m.WebsiteURL = in.WebsiteURL
	m.Description = in.Description
	m.Active = in.Active
	return m
}
