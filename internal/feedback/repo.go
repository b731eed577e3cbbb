package feedback

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sunilfabrications/backend/pkg/db/models"
	"github.com/sunilfabrications/backend/pkg/enums"
)

// Repository defines persistence operations for client feedback.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateFeedback(ctx context.Context, entry *models.Feedback) (*models.Feedback, error)
	FindFeedback(ctx context.Context, id uuid.UUID) (*models.Feedback, error)
	ListFeedback(ctx context.Context, status *enums.FeedbackStatus) ([]models.Feedback, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.FeedbackStatus) error
	DeleteFeedback(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context, status enums.FeedbackStatus) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a feedback repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateFeedback(ctx context.Context, entry *models.Feedback) (*models.Feedback, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *repository) FindFeedback(ctx context.Context, id uuid.UUID) (*models.Feedback, error) {
	var entry models.Feedback
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) ListFeedback(ctx context.Context, status *enums.FeedbackStatus) ([]models.Feedback, error) {
	query := r.db.WithContext(ctx).Model(&models.Feedback{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var rows []models.Feedback
	err := query.Order("created_at DESC, id DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.FeedbackStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Feedback{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) DeleteFeedback(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Feedback{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CountByStatus(ctx context.Context, status enums.FeedbackStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Feedback{}).
		Where("status = ?", status).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
