package models

import (
	"time"

	"github.com/uptrace/bun"
)

type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs"`

	ID             int64                  `bun:"id,pk,autoincrement" json:"id"`
	OrganizationID string                 `bun:"organization_id,notnull" json:"organization_id"`
	Action         string                 `bun:"action,notnull" json:"action"`
	Entity         string                 `bun:"entity,nullzero" json:"entity,omitempty"`
	EntityID       string                 `bun:"entity_id,nullzero" json:"entity_id,omitempty"`
	Details        map[string]interface{} `bun:"details,type:jsonb,nullzero" json:"details,omitempty"`
	CreatedAt      time.Time              `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
