package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sunilfabrications/backend/api/responses"
	"github.com/sunilfabrications/backend/api/validators"
	"github.com/sunilfabrications/backend/internal/pricing"
	"github.com/sunilfabrications/backend/pkg/enums"
	pkgerrors "github.com/sunilfabrications/backend/pkg/errors"
	"github.com/sunilfabrications/backend/pkg/logger"
)

// PricingTable serves the public rate card.
func PricingTable(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		rows, err := svc.Table(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"rows": rows, "default_rate": svc.DefaultRate()})
	}
}

type quoteMeasurementRequest struct {
	Label    string `json:"label"`
	Width    string `json:"width"`
	Height   string `json:"height"`
	Qty      int    `json:"qty"`
	Category string `json:"category,omitempty"`
	Style    string `json:"style,omitempty"`
}

type quoteVentilatorRequest struct {
	Label     string `json:"label"`
	Qty       int    `json:"qty"`
	UnitPrice string `json:"unit_price"`
}

type quoteRequest struct {
	Measurements []quoteMeasurementRequest `json:"measurements"`
	Ventilators  []quoteVentilatorRequest  `json:"ventilators,omitempty"`
}

type quoteMeasurementLine struct {
	Label     string          `json:"label"`
	Area      decimal.Decimal `json:"area"`
	Qty       int             `json:"qty"`
	Rate      decimal.Decimal `json:"rate"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type quoteVentilatorLine struct {
	Label     string          `json:"label"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type quoteResponse struct {
	Measurements []quoteMeasurementLine `json:"measurements"`
	Ventilators  []quoteVentilatorLine  `json:"ventilators"`
	Total        decimal.Decimal        `json:"total"`
}

func (req quoteRequest) toInput() pricing.EstimateInput {
	input := pricing.EstimateInput{}
	for _, m := range req.Measurements {
		input.Measurements = append(input.Measurements, pricing.MeasurementInput{
			Label:    m.Label,
			Width:    m.Width,
			Height:   m.Height,
			Qty:      m.Qty,
			Category: quoteCategory(m.Category),
			Style:    m.Style,
		})
	}
	for _, v := range req.Ventilators {
		input.Ventilators = append(input.Ventilators, pricing.VentilatorInput{
			Label:     v.Label,
			Qty:       v.Qty,
			UnitPrice: v.UnitPrice,
		})
	}
	return input
}

func quoteResponseFrom(estimate *pricing.Estimate) quoteResponse {
	resp := quoteResponse{
		Measurements: make([]quoteMeasurementLine, 0, len(estimate.Measurements)),
		Ventilators:  make([]quoteVentilatorLine, 0, len(estimate.Ventilators)),
		Total:        estimate.Total,
	}
	for _, line := range estimate.Measurements {
		resp.Measurements = append(resp.Measurements, quoteMeasurementLine{
			Label:     line.Label,
			Area:      line.Area,
			Qty:       line.Qty,
			Rate:      line.Rate,
			LineTotal: line.LineTotal,
		})
	}
	for _, line := range estimate.Ventilators {
		resp.Ventilators = append(resp.Ventilators, quoteVentilatorLine{
			Label:     line.Label,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
		})
	}
	return resp
}

// Bad or missing values never block a quote, so unknown categories fall
// back instead of erroring.
func quoteCategory(raw string) enums.ItemCategory {
	category, err := enums.ParseItemCategory(strings.TrimSpace(raw))
	if err != nil {
		return enums.ItemCategoryWindow
	}
	return category
}

// PricingQuote computes an instant estimate for the public calculator.
func PricingQuote(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		var body quoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		estimate, err := svc.Quote(r.Context(), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quoteResponseFrom(estimate))
	}
}

type pricingUpsertRequest struct {
	Category       string            `json:"category" validate:"required"`
	BaseRate       string            `json:"base_rate" validate:"required"`
	StyleOverrides map[string]string `json:"style_overrides,omitempty"`
}

// AdminPricingUpsert creates or replaces one rate card row.
func AdminPricingUpsert(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		var body pricingUpsertRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.UpsertRow(r.Context(), pricing.UpsertRowInput{
			Category:       body.Category,
			BaseRate:       body.BaseRate,
			StyleOverrides: body.StyleOverrides,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

// AdminPricingDelete removes a rate card row.
func AdminPricingDelete(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		raw := chi.URLParam(r, "itemId")
		id, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pricing item id"))
			return
		}

		if err := svc.DeleteRow(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
