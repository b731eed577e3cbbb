package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sunilfabrications/backend/api/responses"
	"github.com/sunilfabrications/backend/api/validators"
	"github.com/sunilfabrications/backend/internal/orders"
	"github.com/sunilfabrications/backend/pkg/enums"
	pkgerrors "github.com/sunilfabrications/backend/pkg/errors"
	"github.com/sunilfabrications/backend/pkg/logger"
	"github.com/sunilfabrications/backend/pkg/pagination"
)

type orderMeasurementRequest struct {
	Label    string `json:"label"`
	Width    string `json:"width"`
	Height   string `json:"height"`
	Qty      int    `json:"qty"`
	Unit     string `json:"unit,omitempty"`
	Category string `json:"category,omitempty"`
	Style    string `json:"style,omitempty"`
}

type orderVentilatorRequest struct {
	Label     string `json:"label"`
	Qty       int    `json:"qty"`
	UnitPrice string `json:"unit_price"`
}

type orderSubmitRequest struct {
	ClientName    string                    `json:"client_name" validate:"required"`
	ClientPhone   string                    `json:"client_phone" validate:"required"`
	Location      string                    `json:"location,omitempty"`
	Latitude      *float64                  `json:"latitude,omitempty"`
	Longitude     *float64                  `json:"longitude,omitempty"`
	PhotoMediaIDs []uuid.UUID               `json:"photo_media_ids,omitempty"`
	FieldQuote    string                    `json:"field_quote,omitempty"`
	Notes         *string                   `json:"notes,omitempty"`
	Unit          string                    `json:"unit,omitempty"`
	Measurements  []orderMeasurementRequest `json:"measurements"`
	Ventilators   []orderVentilatorRequest  `json:"ventilators,omitempty"`
}

func (req orderSubmitRequest) toInput() orders.SubmitInput {
	input := orders.SubmitInput{
		ClientName:    req.ClientName,
		ClientPhone:   req.ClientPhone,
		Location:      req.Location,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		PhotoMediaIDs: req.PhotoMediaIDs,
		FieldQuote:    req.FieldQuote,
		Notes:         req.Notes,
		Unit:          req.Unit,
	}
	for _, m := range req.Measurements {
		input.Measurements = append(input.Measurements, orders.MeasurementInput{
			Label:    m.Label,
			Width:    m.Width,
			Height:   m.Height,
			Qty:      m.Qty,
			Unit:     m.Unit,
			Category: m.Category,
			Style:    m.Style,
		})
	}
	for _, v := range req.Ventilators {
		input.Ventilators = append(input.Ventilators, orders.VentilatorInput{
			Label:     v.Label,
			Qty:       v.Qty,
			UnitPrice: v.UnitPrice,
		})
	}
	return input
}

// OrderSubmit records a site-visit submission from the field form.
func OrderSubmit(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var body orderSubmitRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Submit(r.Context(), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

// AdminOrderList returns the paginated order book.
func AdminOrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		filters := orders.Filters{
			Query: strings.TrimSpace(r.URL.Query().Get("q")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseProjectStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown status filter"))
				return
			}
			filters.Status = &status
		}

		list, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminOrderDetail returns a single order with its line items.
func AdminOrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminOrderUpdateStatus moves an order to any lifecycle stage.
func AdminOrderUpdateStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body orderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.UpdateStatus(r.Context(), id, body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// AdminOrderShare builds the WhatsApp summary link for an order.
func AdminOrderShare(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		share, err := svc.Share(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, share)
	}
}

// AdminOrderDelete removes an order and its line items.
func AdminOrderDelete(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func orderIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "orderId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	return id, nil
}
