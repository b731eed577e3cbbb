package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sunilfabrications/backend/pkg/config"
	"github.com/sunilfabrications/backend/pkg/db/models"
	"github.com/sunilfabrications/backend/pkg/enums"
	pkgerrors "github.com/sunilfabrications/backend/pkg/errors"
	"github.com/sunilfabrications/backend/pkg/types"
)

// CollectionPricing names the live-update collection served by this package.
const CollectionPricing = "pricing"

// Service exposes the rate card and the quote computation.
type Service interface {
	Table(ctx context.Context) ([]Row, error)
	UpsertRow(ctx context.Context, input UpsertRowInput) (*Row, error)
	DeleteRow(ctx context.Context, id uuid.UUID) error
	Quote(ctx context.Context, input EstimateInput) (*Estimate, error)
	RateCard(ctx context.Context) (RateCard, error)
	DefaultRate() decimal.Decimal
	Snapshot(ctx context.Context) (any, error)
}

type changeNotifier interface {
	Changed(ctx context.Context, collection string)
}

type service struct {
	repo        Repository
	notifier    changeNotifier
	defaultRate decimal.Decimal
}

// Row is the API shape of a rate card entry.
type Row struct {
	ID             uuid.UUID            `json:"id"`
	Category       enums.ItemCategory   `json:"category"`
	BaseRate       decimal.Decimal      `json:"base_rate"`
	StyleOverrides types.StyleOverrides `json:"style_overrides,omitempty"`
}

// UpsertRowInput captures an admin rate card edit.
type UpsertRowInput struct {
	Category       string
	BaseRate       string
	StyleOverrides map[string]string
}

// NewService builds the pricing service.
func NewService(repo Repository, notifier changeNotifier, cfg config.PricingConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pricing repository required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("change notifier required")
	}
	defaultRate := ParseNonNegativeDecimal(cfg.DefaultRate)
	if defaultRate.IsZero() {
		defaultRate = decimal.NewFromInt(650)
	}
	return &service{repo: repo, notifier: notifier, defaultRate: defaultRate}, nil
}

func (s *service) DefaultRate() decimal.Decimal {
	return s.defaultRate
}

func (s *service) Table(ctx context.Context) ([]Row, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pricing items")
	}
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, rowFromModel(item))
	}
	return rows, nil
}

func (s *service) RateCard(ctx context.Context) (RateCard, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pricing items")
	}
	card := make(RateCard, len(items))
	for _, item := range items {
		card[item.Category] = Rate{Base: item.BaseRate, Overrides: item.StyleOverrides}
	}
	return card, nil
}

func (s *service) Quote(ctx context.Context, input EstimateInput) (*Estimate, error) {
	card, err := s.RateCard(ctx)
	if err != nil {
		return nil, err
	}
	estimate := ComputeEstimate(input, card, s.defaultRate)
	return &estimate, nil
}

func (s *service) UpsertRow(ctx context.Context, input UpsertRowInput) (*Row, error) {
	category, err := enums.ParseItemCategory(strings.TrimSpace(input.Category))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown pricing category")
	}

	baseRate := ParseNonNegativeDecimal(input.BaseRate)
	if baseRate.IsZero() {
		baseRate = s.defaultRate
	}

	overrides := make(types.StyleOverrides, len(input.StyleOverrides))
	for style, raw := range input.StyleOverrides {
		style = strings.TrimSpace(style)
		if style == "" {
			continue
		}
		overrides[style] = ParseNonNegativeDecimal(raw)
	}
	if len(overrides) == 0 {
		overrides = nil
	}

	item := &models.PricingItem{
		Category:       category,
		BaseRate:       baseRate,
		StyleOverrides: overrides,
	}
	saved, err := s.repo.UpsertItem(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert pricing item")
	}

	s.notifier.Changed(ctx, CollectionPricing)
	row := rowFromModel(*saved)
	return &row, nil
}

func (s *service) DeleteRow(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "pricing item id required")
	}
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "pricing item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete pricing item")
	}
	s.notifier.Changed(ctx, CollectionPricing)
	return nil
}

// Snapshot returns the full rate card for live subscribers.
func (s *service) Snapshot(ctx context.Context) (any, error) {
	rows, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"rows": rows, "default_rate": s.defaultRate}, nil
}

func rowFromModel(item models.PricingItem) Row {
	return Row{
		ID:             item.ID,
		Category:       item.Category,
		BaseRate:       item.BaseRate,
		StyleOverrides: item.StyleOverrides,
	}
}
