package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sunilfabrications/backend/pkg/enums"
	"github.com/sunilfabrications/backend/pkg/types"
)

// Order is a site-visit record: the client, where the site is, what was
// measured there and what it will cost.
type Order struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ClientName      string                `gorm:"column:client_name;not null"`
	ClientPhone     string                `gorm:"column:client_phone;not null"`
	Location        *string               `gorm:"column:location"`
	GeoPoint        *types.GeographyPoint `gorm:"column:geo_point;type:geography(Point,4326)"`
	MapURL          *string               `gorm:"column:map_url"`
	PhotoURLs       []string              `gorm:"column:photo_urls;type:jsonb;serializer:json"`
	FieldQuote      int64                 `gorm:"column:field_quote;not null;default:0"`
	CalculatedTotal decimal.Decimal       `gorm:"column:calculated_total;type:numeric(14,2);not null"`
	Status          enums.ProjectStatus   `gorm:"column:status;type:text;not null;default:'Pending'"`
	Notes           *string               `gorm:"column:notes"`
	Measurements    []OrderMeasurement    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Ventilators     []VentilatorItem      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
