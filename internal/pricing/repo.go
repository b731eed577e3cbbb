package pricing

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sunilfabrications/backend/pkg/db/models"
	"github.com/sunilfabrications/backend/pkg/enums"
)

// Repository defines persistence operations for the rate card.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListItems(ctx context.Context) ([]models.PricingItem, error)
	FindByCategory(ctx context.Context, category enums.ItemCategory) (*models.PricingItem, error)
	UpsertItem(ctx context.Context, item *models.PricingItem) (*models.PricingItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a pricing repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListItems(ctx context.Context) ([]models.PricingItem, error) {
	var items []models.PricingItem
	err := r.db.WithContext(ctx).
		Order("category ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FindByCategory(ctx context.Context, category enums.ItemCategory) (*models.PricingItem, error) {
	var item models.PricingItem
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) UpsertItem(ctx context.Context, item *models.PricingItem) (*models.PricingItem, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"base_rate", "style_overrides", "updated_at"}),
		}).
		Create(item).Error
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.PricingItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
