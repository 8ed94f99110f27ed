package models

import (
	"time"

	"github.com/uptrace/bun"
)

type MenuOption struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	PriceDelta float64 `json:"price_delta,omitempty"`
}

type MenuOptionGroup struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Required  bool         `json:"required,omitempty"`
	MaxSelect int          `json:"max_select,omitempty"`
	Options   []MenuOption `json:"options"`
}

type MenuItem struct {
	bun.BaseModel `bun:"table:menus"`

	ID             int64             `bun:"id,pk,autoincrement" json:"id"`
	OrganizationID string            `bun:"organization_id,notnull" json:"organization_id"`
	Name           string            `bun:"name,notnull" json:"name"`
	Price          float64           `bun:"price,notnull" json:"price"`
	Category       string            `bun:"category,notnull" json:"category"`
	Description    string            `bun:"description,nullzero" json:"description,omitempty"`
	ImageURL       string            `bun:"image_url,nullzero" json:"image_url,omitempty"`
	IsAvailable    bool              `bun:"is_available" json:"is_available"`
	Options        []MenuOptionGroup `bun:"options,type:jsonb,nullzero" json:"options,omitempty"`
	CreatedAt      time.Time         `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
