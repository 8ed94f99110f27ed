package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Organization is a tenant. Every other row is scoped to one via organization_id.
type Organization struct {
	bun.BaseModel `bun:"table:organizations"`

	ID            string    `bun:"id,pk" json:"id"`
	Slug          string    `bun:"slug,notnull,unique" json:"slug"`
	Name          string    `bun:"name,notnull" json:"name"`
	LogoURL       string    `bun:"logo_url,nullzero" json:"logo_url,omitempty"`
	ReceiptHeader string    `bun:"receipt_header,nullzero" json:"receipt_header,omitempty"`
	ReceiptFooter string    `bun:"receipt_footer,nullzero" json:"receipt_footer,omitempty"`
	TaxRate       float64   `bun:"tax_rate,nullzero" json:"tax_rate,omitempty"`
	ServiceRate   float64   `bun:"service_rate,nullzero" json:"service_rate,omitempty"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

type Venue struct {
	bun.BaseModel `bun:"table:venues"`

	ID             string    `bun:"id,pk" json:"id"`
	OrganizationID string    `bun:"organization_id,notnull" json:"organization_id"`
	Name           string    `bun:"name,notnull" json:"name"`
	Slug           string    `bun:"slug,notnull" json:"slug"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// Table is a physical table identified by a human label (table_id), the value
// embedded in the printed QR code.
type Table struct {
	bun.BaseModel `bun:"table:tables"`

	ID             string    `bun:"id,pk" json:"id"`
	OrganizationID string    `bun:"organization_id,notnull" json:"organization_id"`
	TableID        string    `bun:"table_id,notnull" json:"table_id"`
	Label          string    `bun:"label,nullzero" json:"label,omitempty"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

type OrgMember struct {
	bun.BaseModel `bun:"table:org_members"`

	ID             string    `bun:"id,pk" json:"id"`
	OrganizationID string    `bun:"organization_id,notnull" json:"organization_id"`
	UserID         string    `bun:"user_id,notnull" json:"user_id"`
	Role           string    `bun:"role,notnull" json:"role"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

type BootstrapRequest struct {
	OrgSlug   string `json:"orgSlug"`
	OrgName   string `json:"orgName"`
	VenueName string `json:"venueName,omitempty"`
	VenueSlug string `json:"venueSlug,omitempty"`
}

type BootstrapResponse struct {
	OrganizationID string `json:"organization_id"`
	VenueID        string `json:"venue_id,omitempty"`
}
