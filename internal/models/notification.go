package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Notification is a staff-facing message. read_at null means unread.
type Notification struct {
	bun.BaseModel `bun:"table:notifications"`

	ID             int64      `bun:"id,pk,autoincrement" json:"id"`
	OrganizationID string     `bun:"organization_id,notnull" json:"organization_id"`
	Message        string     `bun:"message,notnull" json:"message"`
	Type           string     `bun:"type,nullzero" json:"type,omitempty"`
	ReadAt         *time.Time `bun:"read_at,nullzero" json:"read_at,omitempty"`
	CreatedAt      time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
