package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sunilfabrications/backend/internal/pricing"
	"github.com/sunilfabrications/backend/pkg/config"
	"github.com/sunilfabrications/backend/pkg/db/models"
	"github.com/sunilfabrications/backend/pkg/enums"
	pkgerrors "github.com/sunilfabrications/backend/pkg/errors"
	"github.com/sunilfabrications/backend/pkg/maps"
	"github.com/sunilfabrications/backend/pkg/pagination"
	"github.com/sunilfabrications/backend/pkg/types"
	"github.com/sunilfabrications/backend/pkg/whatsapp"
)

// CollectionOrders names the live-update collection served by this package.
const CollectionOrders = "orders"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type rateSource interface {
	RateCard(ctx context.Context) (pricing.RateCard, error)
	DefaultRate() decimal.Decimal
}

type photoResolver interface {
	ResolveUpload(ctx context.Context, mediaID uuid.UUID) (string, error)
}

type geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (*maps.GeocodeResult, error)
}

type changeNotifier interface {
	Changed(ctx context.Context, collection string)
}

// Service defines order operations for both the public site and the admin
// dashboard.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*Detail, error)
	List(ctx context.Context, params pagination.Params, filters Filters) (*List, error)
	Get(ctx context.Context, id uuid.UUID) (*Detail, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Detail, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Share(ctx context.Context, id uuid.UUID) (*ShareLink, error)
	Snapshot(ctx context.Context) (any, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	rates    rateSource
	photos   photoResolver
	geo      geocoder
	notifier changeNotifier
	waCfg    config.WhatsAppConfig
}

// ServiceParams bundles the dependencies required to build an order service.
type ServiceParams struct {
	Repo     Repository
	Tx       txRunner
	Rates    rateSource
	Photos   photoResolver
	Geocoder geocoder
	Notifier changeNotifier
	WhatsApp config.WhatsAppConfig
}

// NewService builds the order service. Geocoder is optional; everything else
// is required.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Rates == nil {
		return nil, fmt.Errorf("rate source required")
	}
	if params.Photos == nil {
		return nil, fmt.Errorf("photo resolver required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("change notifier required")
	}
	return &service{
		repo:     params.Repo,
		tx:       params.Tx,
		rates:    params.Rates,
		photos:   params.Photos,
		geo:      params.Geocoder,
		notifier: params.Notifier,
		waCfg:    params.WhatsApp,
	}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*Detail, error) {
	clientName := strings.TrimSpace(input.ClientName)
	clientPhone := strings.TrimSpace(input.ClientPhone)
	if clientName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client name is required")
	}
	if clientPhone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client phone is required")
	}

	// Resolve every photo before touching the database: one failed upload
	// aborts the whole submission.
	var photoURLs []string
	for _, mediaID := range input.PhotoMediaIDs {
		url, err := s.photos.ResolveUpload(ctx, mediaID)
		if err != nil {
			return nil, err
		}
		photoURLs = append(photoURLs, url)
	}

	card, err := s.rates.RateCard(ctx)
	if err != nil {
		return nil, err
	}

	defaultUnit := parseUnit(input.Unit)
	estimateInput := pricing.EstimateInput{
		Measurements: make([]pricing.MeasurementInput, 0, len(input.Measurements)),
		Ventilators:  make([]pricing.VentilatorInput, 0, len(input.Ventilators)),
	}
	for _, m := range input.Measurements {
		estimateInput.Measurements = append(estimateInput.Measurements, pricing.MeasurementInput{
			Label:    m.Label,
			Width:    m.Width,
			Height:   m.Height,
			Qty:      m.Qty,
			Category: parseCategory(m.Category),
			Style:    m.Style,
		})
	}
	for _, v := range input.Ventilators {
		estimateInput.Ventilators = append(estimateInput.Ventilators, pricing.VentilatorInput{
			Label:     v.Label,
			Qty:       v.Qty,
			UnitPrice: v.UnitPrice,
		})
	}
	estimate := pricing.ComputeEstimate(estimateInput, card, s.rates.DefaultRate())

	order := &models.Order{
		ClientName:      clientName,
		ClientPhone:     clientPhone,
		FieldQuote:      pricing.ParseNonNegativeInt(input.FieldQuote),
		CalculatedTotal: estimate.Total,
		Status:          enums.ProjectStatusPending,
		Notes:           input.Notes,
		PhotoURLs:       photoURLs,
	}
	if location := strings.TrimSpace(input.Location); location != "" {
		order.Location = &location
	}
	if input.Latitude != nil && input.Longitude != nil {
		point := types.GeographyPoint{Lat: *input.Latitude, Lng: *input.Longitude}
		mapURL := point.MapURL()
		order.GeoPoint = &point
		order.MapURL = &mapURL
		if order.Location == nil && s.geo != nil {
			// Best effort only; a missing address never blocks a submission.
			if result, geoErr := s.geo.ReverseGeocode(ctx, point.Lat, point.Lng); geoErr == nil {
				address := result.FormattedAddress
				order.Location = &address
			}
		}
	}

	// Position pins the sheet order: batch inserts can share a timestamp,
	// so created_at alone cannot reproduce the sequence.
	for i, m := range input.Measurements {
		line := estimate.Measurements[i]
		measurement := models.OrderMeasurement{
			Position:  i,
			Label:     m.Label,
			Width:     m.Width,
			Height:    m.Height,
			Qty:       line.Qty,
			Unit:      parseUnitFallback(m.Unit, defaultUnit),
			Category:  parseCategory(m.Category),
			Rate:      line.Rate,
			LineTotal: line.LineTotal,
		}
		if style := strings.TrimSpace(m.Style); style != "" {
			measurement.Style = &style
		}
		order.Measurements = append(order.Measurements, measurement)
	}
	for i, v := range input.Ventilators {
		line := estimate.Ventilators[i]
		order.Ventilators = append(order.Ventilators, models.VentilatorItem{
			Position:  i,
			Label:     v.Label,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
		})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, createErr := s.repo.WithTx(tx).CreateOrder(ctx, order)
		return createErr
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	s.notifier.Changed(ctx, CollectionOrders)
	detail := detailFromModel(order)
	return &detail, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters Filters) (*List, error) {
	rows, next, err := s.repo.ListOrders(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	summaries := make([]Summary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, summaryFromModel(row))
	}
	result := &List{Orders: summaries}
	if next != nil {
		result.NextCursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Detail, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := detailFromModel(order)
	return &detail, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Detail, error) {
	parsed, err := enums.ParseProjectStatus(strings.TrimSpace(status))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown project status")
	}

	// Any current status may move to any other: the workshop reorders jobs
	// freely, so no transition table is enforced here.
	if err := s.repo.UpdateOrderStatus(ctx, id, parsed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	s.notifier.Changed(ctx, CollectionOrders)
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	s.notifier.Changed(ctx, CollectionOrders)
	return nil
}

func (s *service) Share(ctx context.Context, id uuid.UUID) (*ShareLink, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	unit := enums.MeasurementUnitInches
	lines := make([]whatsapp.MeasurementLine, 0, len(order.Measurements))
	for _, m := range order.Measurements {
		unit = m.Unit
		lines = append(lines, whatsapp.MeasurementLine{
			Label:  m.Label,
			Width:  m.Width,
			Height: m.Height,
			Qty:    m.Qty,
		})
	}

	location := ""
	if order.Location != nil {
		location = *order.Location
	}
	mapURL := ""
	if order.MapURL != nil {
		mapURL = *order.MapURL
	}

	log := whatsapp.VisitLog{
		BusinessName:    s.waCfg.BusinessName,
		ClientName:      order.ClientName,
		ClientPhone:     order.ClientPhone,
		Location:        location,
		MapURL:          mapURL,
		Unit:            unit,
		Measurements:    lines,
		CalculatedTotal: order.CalculatedTotal,
		FieldQuote:      order.FieldQuote,
	}
	text := log.Text()

	return &ShareLink{
		Link:      whatsapp.Link(s.waCfg.OwnerNumber, text),
		Text:      text,
		PlainText: log.PlainText(),
	}, nil
}

// Snapshot returns every order summary, newest first, for live subscribers.
func (s *service) Snapshot(ctx context.Context) (any, error) {
	rows, err := s.repo.ListAllOrders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load orders snapshot")
	}
	summaries := make([]Summary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, summaryFromModel(row))
	}
	return summaries, nil
}

func (s *service) findOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func parseUnit(raw string) enums.MeasurementUnit {
	unit, err := enums.ParseMeasurementUnit(strings.TrimSpace(raw))
	if err != nil {
		return enums.MeasurementUnitInches
	}
	return unit
}

func parseUnitFallback(raw string, fallback enums.MeasurementUnit) enums.MeasurementUnit {
	unit, err := enums.ParseMeasurementUnit(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return unit
}

func parseCategory(raw string) enums.ItemCategory {
	category, err := enums.ParseItemCategory(strings.TrimSpace(raw))
	if err != nil {
		return enums.ItemCategoryWindow
	}
	return category
}

func summaryFromModel(order models.Order) Summary {
	return Summary{
		ID:              order.ID,
		ClientName:      order.ClientName,
		ClientPhone:     order.ClientPhone,
		Location:        order.Location,
		Status:          order.Status,
		ProgressPercent: order.Status.ProgressPercent(),
		CalculatedTotal: order.CalculatedTotal,
		FieldQuote:      order.FieldQuote,
		CreatedAt:       order.CreatedAt,
	}
}

func detailFromModel(order *models.Order) Detail {
	detail := Detail{
		Summary:      summaryFromModel(*order),
		MapURL:       order.MapURL,
		PhotoURLs:    order.PhotoURLs,
		Notes:        order.Notes,
		Measurements: make([]MeasurementView, 0, len(order.Measurements)),
		Ventilators:  make([]VentilatorView, 0, len(order.Ventilators)),
		UpdatedAt:    order.UpdatedAt,
	}
	for _, m := range order.Measurements {
		detail.Measurements = append(detail.Measurements, MeasurementView{
			ID:        m.ID,
			Label:     m.Label,
			Width:     m.Width,
			Height:    m.Height,
			Qty:       m.Qty,
			Unit:      m.Unit,
			Category:  m.Category,
			Style:     m.Style,
			Rate:      m.Rate,
			LineTotal: m.LineTotal,
		})
	}
	for _, v := range order.Ventilators {
		detail.Ventilators = append(detail.Ventilators, VentilatorView{
			ID:        v.ID,
			Label:     v.Label,
			Qty:       v.Qty,
			UnitPrice: v.UnitPrice,
			LineTotal: v.LineTotal,
		})
	}
	return detail
}
