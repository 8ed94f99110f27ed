package models

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

const (
	StatusPending   = "pending"
	StatusPreparing = "preparing"
	StatusReady     = "ready to be served"
	StatusServed    = "served"
	StatusPaid      = "paid"
	StatusCanceled  = "canceled"
)

// OrderStatuses is the display order of the kitchen board sections.
var OrderStatuses = []string{
	StatusPending,
	StatusPreparing,
	StatusReady,
	StatusServed,
	StatusPaid,
	StatusCanceled,
}

func ValidStatus(s string) bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type OrderItem struct {
	MenuItemID int64  `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
	Status     string `json:"status,omitempty"`
}

type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID             int64       `bun:"id,pk,autoincrement" json:"id"`
	OrganizationID string      `bun:"organization_id,notnull" json:"organization_id"`
	TableID        string      `bun:"table_id,notnull" json:"table_id"`
	Name           string      `bun:"name,nullzero" json:"name,omitempty"`
	Items          []OrderItem `bun:"order_items,type:jsonb" json:"order_items"`
	Status         string      `bun:"status,notnull" json:"status"`
	Comment        string      `bun:"comment,nullzero" json:"comment,omitempty"`
	DiscAmt        float64     `bun:"disc_amt,nullzero" json:"disc_amt,omitempty"`
	DiscPct        float64     `bun:"disc_pct,nullzero" json:"disc_pct,omitempty"`
	CreatedAt      time.Time   `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// CustomerName normalizes the optional name for grouping. Blank means "Unknown".
func (o Order) CustomerName() string {
	name := strings.TrimSpace(o.Name)
	if name == "" {
		return "Unknown"
	}
	return name
}

type PlaceOrderRequest struct {
	TableID string      `json:"table_id"`
	Name    string      `json:"name,omitempty"`
	Comment string      `json:"comment,omitempty"`
	Items   []OrderItem `json:"order_items"`
}

type UpdateOrderRequest struct {
	Name    string      `json:"name"`
	Comment string      `json:"comment"`
	Items   []OrderItem `json:"order_items"`
	DiscAmt float64     `json:"disc_amt"`
	DiscPct float64     `json:"disc_pct"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type PayRequest struct {
	TableID string   `json:"table_id"`
	Names   []string `json:"names,omitempty"`
	All     bool     `json:"all,omitempty"`
	Method  string   `json:"method,omitempty"`
	Cashier string   `json:"cashier,omitempty"`
}

type PayResponse struct {
	PaidOrderIDs []int64 `json:"paid_order_ids"`
	Amount       float64 `json:"amount"`
	PaymentID    string  `json:"payment_id,omitempty"`
}
