package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sunilfabrications/backend/pkg/enums"
)

// MeasurementInput is one opening captured during a site visit. Width and
// height stay raw text exactly as typed on the measurement sheet.
type MeasurementInput struct {
	Label    string
	Width    string
	Height   string
	Qty      int
	Unit     string
	Category string
	Style    string
}

// VentilatorInput is a fixed-price accessory captured during a site visit.
type VentilatorInput struct {
	Label     string
	Qty       int
	UnitPrice string
}

// SubmitInput is everything a site-visit submission carries.
type SubmitInput struct {
	ClientName    string
	ClientPhone   string
	Location      string
	Latitude      *float64
	Longitude     *float64
	PhotoMediaIDs []uuid.UUID
	FieldQuote    string
	Notes         *string
	Unit          string
	Measurements  []MeasurementInput
	Ventilators   []VentilatorInput
}

// Filters describe the admin order list inputs.
type Filters struct {
	Status *enums.ProjectStatus
	Query  string
}

// MeasurementView is the API shape of a stored measurement.
type MeasurementView struct {
	ID        uuid.UUID             `json:"id"`
	Label     string                `json:"label"`
	Width     string                `json:"width"`
	Height    string                `json:"height"`
	Qty       int                   `json:"qty"`
	Unit      enums.MeasurementUnit `json:"unit"`
	Category  enums.ItemCategory    `json:"category"`
	Style     *string               `json:"style,omitempty"`
	Rate      decimal.Decimal       `json:"rate"`
	LineTotal decimal.Decimal       `json:"line_total"`
}

// VentilatorView is the API shape of a stored ventilator line.
type VentilatorView struct {
	ID        uuid.UUID       `json:"id"`
	Label     string          `json:"label"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Summary is the list-row shape of an order.
type Summary struct {
	ID              uuid.UUID           `json:"id"`
	ClientName      string              `json:"client_name"`
	ClientPhone     string              `json:"client_phone"`
	Location        *string             `json:"location,omitempty"`
	Status          enums.ProjectStatus `json:"status"`
	ProgressPercent int                 `json:"progress_percent"`
	CalculatedTotal decimal.Decimal     `json:"calculated_total"`
	FieldQuote      int64               `json:"field_quote"`
	CreatedAt       time.Time           `json:"created_at"`
}

// Detail is the full API shape of an order.
type Detail struct {
	Summary
	MapURL       *string           `json:"map_url,omitempty"`
	PhotoURLs    []string          `json:"photo_urls,omitempty"`
	Notes        *string           `json:"notes,omitempty"`
	Measurements []MeasurementView `json:"measurements"`
	Ventilators  []VentilatorView  `json:"ventilators"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// List wraps the paginated orders plus the next page cursor.
type List struct {
	Orders     []Summary `json:"orders"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// ShareLink is the WhatsApp summary payload for an order.
type ShareLink struct {
	Link      string `json:"link"`
	Text      string `json:"text"`
	PlainText string `json:"plain_text"`
}
