package gallery

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sunilfabrications/backend/pkg/db/models"
	"github.com/sunilfabrications/backend/pkg/enums"
)

// Filters describe the gallery browse inputs.
type Filters struct {
	Category *enums.GalleryCategory
	Query    string
}

// Repository defines persistence operations for gallery items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListItems(ctx context.Context, filters Filters) ([]models.GalleryItem, error)
	FindItem(ctx context.Context, id uuid.UUID) (*models.GalleryItem, error)
	CreateItem(ctx context.Context, item *models.GalleryItem) (*models.GalleryItem, error)
	SaveItem(ctx context.Context, item *models.GalleryItem) (*models.GalleryItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a gallery repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListItems(ctx context.Context, filters Filters) ([]models.GalleryItem, error) {
	query := r.db.WithContext(ctx).Model(&models.GalleryItem{})
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if trimmed := strings.TrimSpace(filters.Query); trimmed != "" {
		like := "%" + strings.ToLower(trimmed) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?", like, like)
	}

	var rows []models.GalleryItem
	err := query.Order("created_at DESC, id DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindItem(ctx context.Context, id uuid.UUID) (*models.GalleryItem, error) {
	var item models.GalleryItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) CreateItem(ctx context.Context, item *models.GalleryItem) (*models.GalleryItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) SaveItem(ctx context.Context, item *models.GalleryItem) (*models.GalleryItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.GalleryItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
