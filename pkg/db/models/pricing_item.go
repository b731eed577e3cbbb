package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sunilfabrications/backend/pkg/enums"
	"github.com/sunilfabrications/backend/pkg/types"
)

// PricingItem is one row of the rate card: a category's base rate per
// square foot plus optional per-style overrides.
type PricingItem struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Category       enums.ItemCategory   `gorm:"column:category;type:text;not null;uniqueIndex"`
	BaseRate       decimal.Decimal      `gorm:"column:base_rate;type:numeric(12,2);not null"`
	StyleOverrides types.StyleOverrides `gorm:"column:style_overrides;type:jsonb;serializer:json"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
