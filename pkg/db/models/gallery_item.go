package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sunilfabrications/backend/pkg/enums"
)

// GalleryItem is a finished-work photo shown on the marketing site.
type GalleryItem struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string                `gorm:"column:title;not null"`
	Category    enums.GalleryCategory `gorm:"column:category;type:text;not null"`
	ImageURL    string                `gorm:"column:image_url;not null"`
	Description *string               `gorm:"column:description"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
