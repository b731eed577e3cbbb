package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sunilfabrications/backend/pkg/enums"
)

// OrderMeasurement captures one measured opening within an order.
//
// Width and height keep the raw text the surveyor typed; the numeric
// interpretation lives in the rate/line total snapshot taken at submission.
type OrderMeasurement struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID             `gorm:"column:order_id;type:uuid;not null"`
	Position  int                   `gorm:"column:position;not null"`
	Label     string                `gorm:"column:label;not null"`
	Width     string                `gorm:"column:width;not null"`
	Height    string                `gorm:"column:height;not null"`
	Qty       int                   `gorm:"column:qty;not null"`
	Unit      enums.MeasurementUnit `gorm:"column:unit;type:text;not null;default:'Inches'"`
	Category  enums.ItemCategory    `gorm:"column:category;type:text;not null;default:'Window'"`
	Style     *string               `gorm:"column:style"`
	Rate      decimal.Decimal       `gorm:"column:rate;type:numeric(12,2);not null"`
	LineTotal decimal.Decimal       `gorm:"column:line_total;type:numeric(14,2);not null"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
