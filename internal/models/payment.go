package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Payment records who settled which names at a table. Best effort bookkeeping:
// "paid" on the orders themselves is the status label, not a financial transaction.
type Payment struct {
	bun.BaseModel `bun:"table:payments"`

	ID             string    `bun:"id,pk" json:"id"`
	OrganizationID string    `bun:"organization_id,notnull" json:"organization_id"`
	TableID        string    `bun:"table_id,notnull" json:"table_id"`
	Names          []string  `bun:"names,type:jsonb,nullzero" json:"names,omitempty"`
	Amount         float64   `bun:"amount,notnull" json:"amount"`
	Method         string    `bun:"method,nullzero" json:"method,omitempty"`
	Cashier        string    `bun:"cashier,nullzero" json:"cashier,omitempty"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
